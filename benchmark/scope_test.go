package benchmark

import (
	"context"
	"testing"

	"github.com/avelins/loom"
)

func BenchmarkScope_CreateClose_Loom(b *testing.B) {
	c := loom.New()
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		scope := c.CreateScope()
		_ = scope.Close(ctx)
	}
}

func BenchmarkScope_ResolveScoped_Loom(b *testing.B) {
	c := loom.New()
	_ = loom.RegisterValue(c, &Logger{Level: "info"})
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*Cache, error) {
			return &Cache{Logger: loom.MustFrom[*Logger](deps)}, nil
		},
		loom.WithLifetime(loom.Scoped),
		loom.WithDependencies(loom.Key[*Logger]()),
	)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		scope := c.CreateScope()
		_, _ = loom.Resolve[*Cache](scope)
		_ = scope.Close(ctx)
	}
}

func BenchmarkScope_CachedScopedResolve_Loom(b *testing.B) {
	c := loom.New()
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*Config, error) {
			return &Config{Host: "localhost", Port: 8080}, nil
		},
		loom.WithLifetime(loom.Scoped),
	)

	scope := c.CreateScope()
	_, _ = loom.Resolve[*Config](scope)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = loom.Resolve[*Config](scope)
	}
}
