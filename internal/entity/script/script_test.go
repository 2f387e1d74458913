package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractScriptEmitsRecordForShebang(t *testing.T) {
	e := New()
	records, err := e.Extract("run", []byte("#!/usr/bin/env bash\necho hi\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "script", records[1].Type)
}

func TestExtractScriptSkipsNonShebangFile(t *testing.T) {
	e := New()
	records, err := e.Extract("README", []byte("just text\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestExtractScriptSkipsBinaryLookingFile(t *testing.T) {
	e := New()
	content := append([]byte("#!/bin/sh\n"), 0x00, 0x01, 0x02)
	records, err := e.Extract("weird", content)
	require.NoError(t, err)
	require.Len(t, records, 1)
}
