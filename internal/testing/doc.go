// Package testing provides test utilities, builders, and fakes for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - FakeTool: In-process certificate tool that writes placeholder material
//   - MockTool: testify mock of the certificate tool contract
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithArtifactsDir(t.TempDir()).
//	    WithCreate("ns1", "10.0.0.1").
//	    Build()
//
//	tool := testing.NewFakeTool()
//	tool.FailOn(certtool.OpCreateNode, "boom")
package testing
