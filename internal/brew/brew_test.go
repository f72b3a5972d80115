package brew

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phpdoctor/phpdoctor/internal/errors"
)

// fakeRunner returns canned output per command line.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) FileExists(string) bool { return false }

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	key := name
	for _, a := range args {
		key += " " + a
	}
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return "", fmt.Errorf("unexpected command: %s", key)
}

const servicesOutput = `Name  Status  User File
php     started sam  ~/Library/LaunchAgents/homebrew.mxcl.php.plist
php@8.2 started sam  ~/Library/LaunchAgents/homebrew.mxcl.php@8.2.plist
mysql   none
nginx   stopped root
`

func TestClient_Info(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew info php --json": `[{"name":"php","full_name":"php","version":"8.3.1","aliases":["php@8.3"]}]`,
	}}
	c := NewClient(runner, "brew", 0)

	info, err := c.Info(context.Background(), "php")
	require.NoError(t, err)
	assert.Equal(t, "8.3.1", info.Version)
	assert.Equal(t, "php", info.Name)
	assert.Equal(t, []string{"php@8.3"}, info.Aliases)
}

func TestClient_Info_FirstElementAuthoritative(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew info php --json": `[{"name":"php","version":"8.3.1"},{"name":"php","version":"7.4.0"}]`,
	}}
	c := NewClient(runner, "brew", 0)

	info, err := c.Info(context.Background(), "php")
	require.NoError(t, err)
	assert.Equal(t, "8.3.1", info.Version)
}

func TestClient_Info_MalformedJSON(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew info php --json": `{"oops": tru`,
	}}
	c := NewClient(runner, "brew", 0)

	_, err := c.Info(context.Background(), "php")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDecodeFailed, errors.CodeOf(err))
	assert.True(t, errors.IsFatal(err))
}

func TestClient_Info_EmptyArray(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew info php --json": `[]`,
	}}
	c := NewClient(runner, "brew", 0)

	_, err := c.Info(context.Background(), "php")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEmptyResponse, errors.CodeOf(err))
}

func TestClient_Info_MissingVersion(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew info php --json": `[{"name":"php"}]`,
	}}
	c := NewClient(runner, "brew", 0)

	_, err := c.Info(context.Background(), "php")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestClient_Info_CommandFailure(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"brew info php --json": fmt.Errorf("exit status 1"),
	}}
	c := NewClient(runner, "brew", 0)

	_, err := c.Info(context.Background(), "php")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCommandFailed, errors.CodeOf(err))
}

func TestClient_Services(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew services list": servicesOutput,
	}}
	c := NewClient(runner, "brew", 0)

	services, err := c.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 4)

	assert.Equal(t, Service{Name: "php", Status: "started", User: "sam"}, services[0])
	assert.True(t, services[0].Started())
	assert.Equal(t, "mysql", services[2].Name)
	assert.False(t, services[2].Started())
}

func TestClient_Services_LeadingBlankLine(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew services list": "\nName  Status  User File\nphp started sam x.plist\n",
	}}
	c := NewClient(runner, "brew", 0)

	services, err := c.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1, "header is skipped even when not the first line")
	assert.Equal(t, "php", services[0].Name)
}

func TestClient_StartedPHPCount(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew services list": servicesOutput,
	}}
	c := NewClient(runner, "brew", 0)

	count, err := c.StartedPHPCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestClient_CachesOutput(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew services list": servicesOutput,
	}}
	c := NewClient(runner, "brew", time.Minute)

	_, err := c.Services(context.Background())
	require.NoError(t, err)
	_, err = c.Services(context.Background())
	require.NoError(t, err)

	assert.Len(t, runner.calls, 1, "second call should hit the cache")
}

func TestClient_Invalidate(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"brew services list": servicesOutput,
	}}
	c := NewClient(runner, "brew", time.Minute)

	_, err := c.Services(context.Background())
	require.NoError(t, err)

	c.Invalidate()

	_, err = c.Services(context.Background())
	require.NoError(t, err)
	assert.Len(t, runner.calls, 2)
}

func TestClient_ErrorsNotCached(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"brew services list": fmt.Errorf("brew broke"),
	}}
	c := NewClient(runner, "brew", time.Minute)

	_, err := c.Services(context.Background())
	require.Error(t, err)
	_, err = c.Services(context.Background())
	require.Error(t, err)

	assert.Len(t, runner.calls, 2)
}
