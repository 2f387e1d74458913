package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"fubbertool/internal/apperr"
	"fubbertool/internal/query"
	"fubbertool/internal/store"
)

func TestExitCodeForConfigErrorIsOne(t *testing.T) {
	require.Equal(t, 1, exitCodeFor(&apperr.ConfigError{Path: "/tmp/x"}))
}

func TestExitCodeForQueryParseErrorIsOne(t *testing.T) {
	require.Equal(t, 1, exitCodeFor(&query.ParseError{Query: "a AND", Offset: 5, Expected: "term"}))
}

func TestExitCodeForStoreErrorIsTwo(t *testing.T) {
	require.Equal(t, 2, exitCodeFor(&store.Error{Op: "open", Err: errors.New("disk full")}))
}

func TestExitCodeForInvalidArgsIsThree(t *testing.T) {
	require.Equal(t, 3, exitCodeFor(errInvalidArgs))
}

func TestExitCodeDefaultsToTwo(t *testing.T) {
	require.Equal(t, 2, exitCodeFor(errors.New("unclassified failure")))
}
