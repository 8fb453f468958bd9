/*
Copyright (c) Healthy Moms Action, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLogLevel(t *testing.T) {
	LogLevel = "INFO"
	require.NoError(t, ValidateLogLevel())
	assert.Equal(t, INFO, LogLevel)

	LogLevel = "verbose"
	assert.Error(t, ValidateLogLevel())
}

func TestIsLogLevelDebugOrBelow(t *testing.T) {
	for level, expected := range map[string]bool{
		TRACE: true,
		DEBUG: true,
		INFO:  false,
		ERROR: false,
	} {
		LogLevel = level
		assert.Equal(t, expected, IsLogLevelDebugOrBelow(), "level %s", level)
	}
}
