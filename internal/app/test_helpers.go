package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/ymp/internal/testutil"
)

// SetupAppTest builds an App from the configuration at cfgPath with debug
// logging captured in the returned buffer. Set YMP_TEST_LOGS=true to print
// the log when the test ends.
func SetupAppTest(t *testing.T, cfgPath string) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg, err := NewConfig(Config{ConfigPath: cfgPath, LogLevel: "debug", WorkerCount: 2})
	require.NoError(t, err)

	testApp, err := NewApp(logBuffer, cfg, LoaderFor(cfgPath))
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("YMP_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}
