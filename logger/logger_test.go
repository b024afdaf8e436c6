package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/protoshake/protoshake/logger"
	"github.com/stretchr/testify/assert"
)

func TestScriptln(t *testing.T) {
	t.Run("logger must write the result of Scriptln to w", func(t *testing.T) {
		defer logger.Reset()
		w := new(bytes.Buffer)
		logger.SetOutput(w)
		logger.Scriptln(func() []interface{} {
			return []interface{}{"keep", "GetItem"}
		})
		assert.NotEmpty(t, w.String())
	})

	t.Run("logger must not evaluate Scriptln because SetOutput is not called", func(t *testing.T) {
		defer logger.Reset()
		var called bool
		logger.Scriptln(func() []interface{} {
			called = true
			return nil
		})
		assert.False(t, called)
	})
}

func TestPrintf(t *testing.T) {
	defer logger.Reset()
	w := new(bytes.Buffer)
	logger.SetOutput(w)
	logger.SetPrefix("[test] ")
	logger.Printf("dropped %d messages", 3)

	assert.True(t, strings.HasPrefix(w.String(), "[test] dropped 3 messages"), w.String())
}
