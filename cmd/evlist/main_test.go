// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionNoticeIncludesVersionAndLicense(t *testing.T) {
	notice := versionNotice()
	assert.True(t, strings.Contains(notice, "evget "+version))
	assert.Contains(t, notice, "AGPL-3.0-or-later")
}

func TestRunReturnsUsageExitCodeForUnknownFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"--not-a-flag"}))
}

func TestRunReturnsSuccessExitCodeForVersionFlag(t *testing.T) {
	assert.Equal(t, 0, run([]string{"-v"}))
}

func TestRunReturnsInternalErrorExitCodeWithNoBackendCompiled(t *testing.T) {
	// The default build has no windowing-subsystem backend compiled in
	// (see backend_init_stub.go), so a run past flag/config/sink setup
	// must fail at backend initialization with exit code 1, not panic
	// or hang waiting on a pipeline that was never started.
	assert.Equal(t, 1, run([]string{"-o", "-"}))
}
