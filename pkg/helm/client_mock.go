package helm

import "context"

// MockClient implements ClientInterface for testing. Each operation delegates
// to a settable function field; NewMockClient installs permissive defaults.
type MockClient struct {
	MockTemplateChart     func(_ context.Context, opts *TemplateOptions) (string, error)
	MockLintChart         func(_ context.Context, opts *LintOptions) (*LintResult, error)
	MockBuildDependencies func(_ context.Context, chartPath string) error
	MockPackageChart      func(_ context.Context, opts *PackageOptions) (string, error)
	MockLogin             func(_ context.Context, host, username, password string) error
	MockPushChart         func(_ context.Context, archivePath, remote string) error

	// Calls records the operation names invoked, in order.
	Calls []string
}

// NewMockClient creates a MockClient whose operations all succeed.
func NewMockClient() *MockClient {
	return &MockClient{
		MockTemplateChart: func(_ context.Context, _ *TemplateOptions) (string, error) {
			return "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: mock\n", nil
		},
		MockLintChart: func(_ context.Context, _ *LintOptions) (*LintResult, error) {
			return &LintResult{Passed: true}, nil
		},
		MockBuildDependencies: func(_ context.Context, _ string) error {
			return nil
		},
		MockPackageChart: func(_ context.Context, _ *PackageOptions) (string, error) {
			return "/dist/app-stack-1.2.3.tgz", nil
		},
		MockLogin: func(_ context.Context, _, _, _ string) error {
			return nil
		},
		MockPushChart: func(_ context.Context, _, _ string) error {
			return nil
		},
	}
}

// TemplateChart implements ClientInterface.
func (m *MockClient) TemplateChart(ctx context.Context, opts *TemplateOptions) (string, error) {
	m.Calls = append(m.Calls, "template")
	return m.MockTemplateChart(ctx, opts)
}

// LintChart implements ClientInterface.
func (m *MockClient) LintChart(ctx context.Context, opts *LintOptions) (*LintResult, error) {
	m.Calls = append(m.Calls, "lint")
	return m.MockLintChart(ctx, opts)
}

// BuildDependencies implements ClientInterface.
func (m *MockClient) BuildDependencies(ctx context.Context, chartPath string) error {
	m.Calls = append(m.Calls, "dependencies")
	return m.MockBuildDependencies(ctx, chartPath)
}

// PackageChart implements ClientInterface.
func (m *MockClient) PackageChart(ctx context.Context, opts *PackageOptions) (string, error) {
	m.Calls = append(m.Calls, "package")
	return m.MockPackageChart(ctx, opts)
}

// Login implements ClientInterface.
func (m *MockClient) Login(ctx context.Context, host, username, password string) error {
	m.Calls = append(m.Calls, "login")
	return m.MockLogin(ctx, host, username, password)
}

// PushChart implements ClientInterface.
func (m *MockClient) PushChart(ctx context.Context, archivePath, remote string) error {
	m.Calls = append(m.Calls, "push")
	return m.MockPushChart(ctx, archivePath, remote)
}
