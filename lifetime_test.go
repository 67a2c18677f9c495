package loom_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/avelins/loom"
)

type counter struct {
	id int32
}

func counterFactory(calls *atomic.Int32) loom.Factory[*counter] {
	return func(ctx context.Context, deps loom.Deps) (*counter, error) {
		return &counter{id: calls.Add(1)}, nil
	}
}

func TestLifetimeSingleton(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls))

	first := loom.MustResolve[*counter](c)
	second := loom.MustResolve[*counter](c)

	if first != second {
		t.Error("singleton resolves must return the identical instance")
	}
	if calls.Load() != 1 {
		t.Errorf("expected one construction, got %d", calls.Load())
	}
}

func TestLifetimeTransient(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls), loom.WithLifetime(loom.Transient))

	first := loom.MustResolve[*counter](c)
	second := loom.MustResolve[*counter](c)

	if first == second {
		t.Error("transient resolves must return distinct instances")
	}
	if calls.Load() != 2 {
		t.Errorf("expected two constructions, got %d", calls.Load())
	}
}

type left struct{ c *counter }

type right struct{ c *counter }

type top struct {
	l *left
	r *right
}

// A transient reached through two edges of one graph is constructed twice;
// this is the defining difference between lifetimes.
func TestLifetimeTransientDiamond(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls), loom.WithLifetime(loom.Transient))
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*left, error) {
			return &left{c: loom.MustFrom[*counter](deps)}, nil
		}, loom.WithDependencies(loom.Key[*counter]()), loom.WithLifetime(loom.Transient),
	)
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*right, error) {
			return &right{c: loom.MustFrom[*counter](deps)}, nil
		}, loom.WithDependencies(loom.Key[*counter]()), loom.WithLifetime(loom.Transient),
	)
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*top, error) {
			return &top{
				l: loom.MustFrom[*left](deps),
				r: loom.MustFrom[*right](deps),
			}, nil
		}, loom.WithDependencies(loom.Key[*left](), loom.Key[*right]()), loom.WithLifetime(loom.Transient),
	)

	resolved := loom.MustResolve[*top](c)

	if resolved.l.c == resolved.r.c {
		t.Error("transient dependency must be constructed per edge")
	}
	if calls.Load() != 2 {
		t.Errorf("expected two counter constructions, got %d", calls.Load())
	}
}

func TestLifetimeSingletonDiamond(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls))
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*left, error) {
			return &left{c: loom.MustFrom[*counter](deps)}, nil
		}, loom.WithDependencies(loom.Key[*counter]()),
	)
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*right, error) {
			return &right{c: loom.MustFrom[*counter](deps)}, nil
		}, loom.WithDependencies(loom.Key[*counter]()),
	)
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*top, error) {
			return &top{
				l: loom.MustFrom[*left](deps),
				r: loom.MustFrom[*right](deps),
			}, nil
		}, loom.WithDependencies(loom.Key[*left](), loom.Key[*right]()),
	)

	resolved := loom.MustResolve[*top](c)

	if resolved.l.c != resolved.r.c {
		t.Error("singleton dependency must be shared across the graph")
	}
	if calls.Load() != 1 {
		t.Errorf("expected one counter construction, got %d", calls.Load())
	}
}

func TestLifetimeScoped(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls), loom.WithLifetime(loom.Scoped))

	scope := c.CreateScope()
	defer scope.Close(context.Background())

	first := loom.MustResolve[*counter](scope)
	second := loom.MustResolve[*counter](scope)

	if first != second {
		t.Error("scoped resolves within one scope must return the identical instance")
	}
	if calls.Load() != 1 {
		t.Errorf("expected one construction, got %d", calls.Load())
	}
}

func TestLifetimeScopedSiblingScopes(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls), loom.WithLifetime(loom.Scoped))

	scope1 := c.CreateScope()
	defer scope1.Close(context.Background())
	scope2 := c.CreateScope()
	defer scope2.Close(context.Background())

	first := loom.MustResolve[*counter](scope1)
	second := loom.MustResolve[*counter](scope2)

	if first == second {
		t.Error("sibling scopes must hold distinct scoped instances")
	}
	if calls.Load() != 2 {
		t.Errorf("expected one construction per scope, got %d", calls.Load())
	}
}

func TestLifetimeScopedAtRoot(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls), loom.WithLifetime(loom.Scoped))

	// The root container acts as its own scope.
	first := loom.MustResolve[*counter](c)
	second := loom.MustResolve[*counter](c)

	if first != second {
		t.Error("scoped resolves at the root must return the identical instance")
	}
}

func TestSingletonSharedAcrossScopes(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls))

	scope1 := c.CreateScope()
	defer scope1.Close(context.Background())
	scope2 := c.CreateScope()
	defer scope2.Close(context.Background())

	// First construction is triggered from a scope but cached at the root.
	fromScope1 := loom.MustResolve[*counter](scope1)
	fromScope2 := loom.MustResolve[*counter](scope2)
	fromRoot := loom.MustResolve[*counter](c)

	if fromScope1 != fromScope2 || fromScope1 != fromRoot {
		t.Error("singleton must be shared by the root and every scope")
	}
	if calls.Load() != 1 {
		t.Errorf("expected one construction, got %d", calls.Load())
	}
}

func TestConcurrentSingletonConstruction(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls))

	const workers = 32

	results := make([]*counter, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = loom.MustResolve[*counter](c)
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected exactly one factory invocation, got %d", calls.Load())
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatal("all callers must observe the same singleton instance")
		}
	}
}

func TestConcurrentScopedConstruction(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls), loom.WithLifetime(loom.Scoped))

	scope := c.CreateScope()
	defer scope.Close(context.Background())

	const workers = 16

	results := make([]*counter, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = loom.MustResolve[*counter](scope)
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected exactly one factory invocation, got %d", calls.Load())
	}
	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatal("all callers must observe the same scoped instance")
		}
	}
}

type scenarioLogger struct{ id int32 }

type scenarioRepo struct{ logger *scenarioLogger }

type scenarioService struct {
	repo   *scenarioRepo
	logger *scenarioLogger
}

// Logger is a root singleton, Repository is scoped, Service is transient:
// two services from one scope differ but share the repository, and
// everything shares the root logger.
func TestLifetimeScenario(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var loggerCalls atomic.Int32
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*scenarioLogger, error) {
			return &scenarioLogger{id: loggerCalls.Add(1)}, nil
		},
	)
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*scenarioRepo, error) {
			return &scenarioRepo{logger: loom.MustFrom[*scenarioLogger](deps)}, nil
		}, loom.WithDependencies(loom.Key[*scenarioLogger]()), loom.WithLifetime(loom.Scoped),
	)
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*scenarioService, error) {
			return &scenarioService{
				repo:   loom.MustFrom[*scenarioRepo](deps),
				logger: loom.MustFrom[*scenarioLogger](deps),
			}, nil
		},
		loom.WithDependencies(loom.Key[*scenarioRepo](), loom.Key[*scenarioLogger]()),
		loom.WithLifetime(loom.Transient),
	)

	scope := c.CreateScope()
	defer scope.Close(context.Background())

	svc1 := loom.MustResolve[*scenarioService](scope)
	svc2 := loom.MustResolve[*scenarioService](scope)

	if svc1 == svc2 {
		t.Error("transient services must differ")
	}
	if svc1.repo != svc2.repo {
		t.Error("services from one scope must share the scoped repository")
	}
	if svc1.logger != svc2.logger || svc1.logger != svc1.repo.logger {
		t.Error("everything must share the root singleton logger")
	}
	if loggerCalls.Load() != 1 {
		t.Errorf("expected one logger construction, got %d", loggerCalls.Load())
	}
}

func TestSingletonProgressKeptAfterFailure(t *testing.T) {
	t.Parallel()

	c := loom.New()

	var calls atomic.Int32
	_ = loom.Register(c, counterFactory(&calls))
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*Server, error) {
			return nil, context.DeadlineExceeded
		}, loom.WithDependencies(loom.Key[*counter]()),
	)
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*top, error) {
			return &top{}, nil
		}, loom.WithDependencies(loom.Key[*counter](), loom.Key[*Server]()),
	)

	if _, err := loom.Resolve[*top](c); !loom.IsProviderFailed(err) {
		t.Fatalf("expected PROVIDER_FAILED, got %v", err)
	}

	// The singleton constructed before the failure stays cached.
	loom.MustResolve[*counter](c)
	if calls.Load() != 1 {
		t.Errorf("expected cached partial progress, got %d constructions", calls.Load())
	}
}
