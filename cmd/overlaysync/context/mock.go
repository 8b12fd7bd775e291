package context

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/pkg/catalog"
)

// MockContext is a Context for tests. Nil funcs fall back to zero values.
type MockContext struct {
	CatalogFunc       func() (*catalog.Catalog, error)
	DocumentPathFunc  func() (string, error)
	OverridesFunc     func() map[string]string
	EngineOptionsFunc func() []overlaysync.Option
	ListenAddr        string
	Format            string
	LoggerInstance    *zerolog.Logger
}

var _ Context = (*MockContext)(nil)

// Catalog implements Context.
func (m *MockContext) Catalog() (*catalog.Catalog, error) {
	if m.CatalogFunc != nil {
		return m.CatalogFunc()
	}
	return catalog.Empty(), nil
}

// DocumentPath implements Context.
func (m *MockContext) DocumentPath() (string, error) {
	if m.DocumentPathFunc != nil {
		return m.DocumentPathFunc()
	}
	return "", nil
}

// Overrides implements Context.
func (m *MockContext) Overrides() map[string]string {
	if m.OverridesFunc != nil {
		return m.OverridesFunc()
	}
	return map[string]string{}
}

// EngineOptions implements Context.
func (m *MockContext) EngineOptions() []overlaysync.Option {
	if m.EngineOptionsFunc != nil {
		return m.EngineOptionsFunc()
	}
	return nil
}

// Listen implements Context.
func (m *MockContext) Listen() string { return m.ListenAddr }

// Logger implements Context.
func (m *MockContext) Logger() *zerolog.Logger {
	if m.LoggerInstance != nil {
		return m.LoggerInstance
	}
	nop := zerolog.Nop()
	return &nop
}

// OutputFormat implements Context.
func (m *MockContext) OutputFormat() string { return m.Format }

// Version implements Context.
func (m *MockContext) Version() string { return "test" }

// Commit implements Context.
func (m *MockContext) Commit() string { return "none" }

// Date implements Context.
func (m *MockContext) Date() string { return "unknown" }

// BuiltBy implements Context.
func (m *MockContext) BuiltBy() string { return "test" }
