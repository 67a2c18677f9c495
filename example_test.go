package loom_test

import (
	"context"
	"fmt"

	"github.com/avelins/loom"
)

func ExampleNew() {
	c := loom.New()

	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*Config, error) {
			return &Config{Port: 8080}, nil
		},
	)

	cfg, _ := loom.Resolve[*Config](c)
	fmt.Println(cfg.Port)
	// Output: 8080
}

func ExampleRegister() {
	c := loom.New()

	_ = loom.RegisterValue(c, &Config{Host: "localhost"})
	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*Database, error) {
			cfg, err := loom.From[*Config](deps)
			if err != nil {
				return nil, err
			}
			return &Database{Config: cfg, Name: "app"}, nil
		}, loom.WithDependencies(loom.Key[*Config]()),
	)

	db, _ := loom.Resolve[*Database](c)
	fmt.Println(db.Name, db.Config.Host)
	// Output: app localhost
}

func ExampleWithLifetime() {
	c := loom.New()

	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*Config, error) {
			return &Config{}, nil
		}, loom.WithLifetime(loom.Transient),
	)

	first, _ := loom.Resolve[*Config](c)
	second, _ := loom.Resolve[*Config](c)
	fmt.Println(first == second)
	// Output: false
}

func ExampleContainer_CreateScope() {
	c := loom.New()

	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*Database, error) {
			return &Database{Name: "request-db"}, nil
		}, loom.WithLifetime(loom.Scoped),
	)

	scope := c.CreateScope()
	defer scope.Close(context.Background())

	first, _ := loom.Resolve[*Database](scope)
	second, _ := loom.Resolve[*Database](scope)
	fmt.Println(first == second)

	sibling := c.CreateScope()
	defer sibling.Close(context.Background())

	other, _ := loom.Resolve[*Database](sibling)
	fmt.Println(first == other)
	// Output:
	// true
	// false
}

func ExampleRegisterNamed() {
	c := loom.New()

	_ = loom.RegisterNamedValue(c, "primary", &Database{Name: "primary"})
	_ = loom.RegisterNamedValue(c, "replica", &Database{Name: "replica"})

	primary, _ := loom.ResolveNamed[*Database](c, "primary")
	replica, _ := loom.ResolveNamed[*Database](c, "replica")
	fmt.Println(primary.Name)
	fmt.Println(replica.Name)
	// Output:
	// primary
	// replica
}

func ExampleBind() {
	c := loom.New()

	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*memoryMailer, error) {
			return &memoryMailer{}, nil
		},
	)
	_ = loom.Bind[notifier, *memoryMailer](c)

	n, _ := loom.Resolve[notifier](c)
	fmt.Println(n.Notify("welcome"))
	// Output: <nil>
}

func ExampleContainer_Validate() {
	c := loom.New()

	_ = loom.Register(
		c, func(ctx context.Context, deps loom.Deps) (*Database, error) {
			return &Database{}, nil
		}, loom.WithDependencies(loom.Key[*Config]()),
	)

	err := c.Validate()
	fmt.Println(loom.IsValidationFailed(err))
	// Output: true
}
