package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/pkg/config"
)

var _ ports.SessionStorage = (*RedisStorage)(nil)

// RedisStorage comparte la sesión entre procesos/máquinas. Claves:
// idcr:session:<namespace>:<slot>.
type RedisStorage struct {
	inner     *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStorage conecta y verifica con PING.
func NewRedisStorage(ctx context.Context, cfg config.RedisConfig, namespace string, ttl time.Duration) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("sessionstore: redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStorageFromClient(client, namespace, ttl), nil
}

// NewRedisStorageFromClient usa un cliente ya construido. ttl 0 = sin expiración.
func NewRedisStorageFromClient(client *redis.Client, namespace string, ttl time.Duration) *RedisStorage {
	if namespace == "" {
		namespace = "default"
	}
	return &RedisStorage{inner: client, namespace: namespace, ttl: ttl}
}

func (s *RedisStorage) key(slot string) string {
	return "idcr:session:" + s.namespace + ":" + slot
}

func (s *RedisStorage) Get(ctx context.Context, slot string) (string, bool, error) {
	v, err := s.inner.Get(ctx, s.key(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sessionstore: redis get %s: %w", slot, err)
	}
	return v, true, nil
}

// sessionSlots expiran juntos: escribir uno renueva el TTL de los demás.
var sessionSlots = []string{ports.SlotAuthToken, ports.SlotUser}

// Set escribe el slot y, en la misma transacción MULTI, alinea el TTL del
// resto de slots de la sesión.
func (s *RedisStorage) Set(ctx context.Context, slot, value string) error {
	_, err := s.inner.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(slot), value, s.ttl)
		if s.ttl <= 0 {
			return nil
		}
		for _, other := range sessionSlots {
			if other != slot {
				pipe.Expire(ctx, s.key(other), s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sessionstore: redis set %s: %w", slot, err)
	}
	return nil
}

// Delete borra todos los slots en un único DEL (atómico).
func (s *RedisStorage) Delete(ctx context.Context, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	keys := make([]string, len(slots))
	for i, slot := range slots {
		keys[i] = s.key(slot)
	}
	if err := s.inner.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("sessionstore: redis del: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (s *RedisStorage) Close() error {
	return s.inner.Close()
}
