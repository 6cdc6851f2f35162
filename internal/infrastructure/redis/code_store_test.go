package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ledger/internal/shared/config"
)

func TestCodeKey(t *testing.T) {
	if got := codeKey("+5511999990000"); got != "ledger:reset-code:+5511999990000" {
		t.Errorf("codeKey() = %q", got)
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(config.RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected ping error for unreachable server")
	}
}

func TestCodeStore_ClosedClient(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	rdb.Close()
	store := NewCodeStore(rdb)

	if err := store.Save(context.Background(), "1", "123456", time.Minute); err == nil {
		t.Error("Save() on closed client should fail")
	}
	if _, err := store.Get(context.Background(), "1"); err == nil || errors.Is(err, goredis.Nil) {
		t.Errorf("Get() on closed client error = %v", err)
	}
}
