package usecase

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// Tipos de documento que asigna la clasificación por nombre.
const (
	TypeFinancial = "financial_document"
	TypeLegal     = "legal_document"
	TypeHR        = "hr_document"
	TypeGeneral   = "general_document"
)

const summaryRunes = 200

// classifyRule palabras clave del nombre → tipo y prioridad. Gana la primera regla.
type classifyRule struct {
	keywords []string
	docType  string
	priority string
}

var classifyRules = []classifyRule{
	{[]string{"invoice", "receipt"}, TypeFinancial, entity.PriorityHigh},
	{[]string{"contract", "legal"}, TypeLegal, entity.PriorityHigh},
	{[]string{"hr", "employee"}, TypeHR, entity.PriorityMedium},
}

// Classify heurística por nombre de archivo.
func Classify(filename string) (docType, priority string) {
	name := strings.ToLower(filename)
	for _, r := range classifyRules {
		for _, k := range r.keywords {
			if strings.Contains(name, k) {
				return r.docType, r.priority
			}
		}
	}
	return TypeGeneral, entity.PriorityMedium
}

// ExtractText solo .txt. Si no es UTF-8 válido se decodifica como ISO-8859-1,
// que es lo que suelen exportar los equipos Windows de la oficina.
func ExtractText(filename string, content []byte) (string, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".txt" {
		return "", nil
	}
	if utf8.Valid(content) {
		return string(content), nil
	}
	b, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Summarize primeras 200 runas sin espacios sobrantes.
func Summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= summaryRunes {
		return text
	}
	return string(r[:summaryRunes])
}
