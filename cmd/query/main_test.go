package main

import (
	"testing"

	"github.com/letmevibethatforyou/sitesearch"
)

func TestBuildFilterOptions(t *testing.T) {
	tests := map[string]struct {
		kinds         []string
		tags          []string
		expectedCount int
		expectError   bool
	}{
		"none":             {expectedCount: 0},
		"kinds become one": {kinds: []string{"page", " Project "}, expectedCount: 1},
		"tags each count":  {tags: []string{"go", "react"}, expectedCount: 2},
		"kinds and tags":   {kinds: []string{"post"}, tags: []string{"go"}, expectedCount: 2},
		"unknown kind":     {kinds: []string{"video"}, expectError: true},
		"empty tag":        {tags: []string{" "}, expectError: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			opts, err := buildFilterOptions(tc.kinds, tc.tags)
			if tc.expectError {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(opts) != tc.expectedCount {
				t.Errorf("Expected %d options, got %d", tc.expectedCount, len(opts))
			}
		})
	}
}

func TestBuildFilterOptions_KindsAreOred(t *testing.T) {
	opts, err := buildFilterOptions([]string{"page", "skill"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cfg := sitesearch.NewSearchConfig(opts...)
	or, ok := cfg.Filters[0].(sitesearch.OrExpr)
	if !ok || len(or.Exprs) != 2 {
		t.Fatalf("Expected an OR of two kinds, got %#v", cfg.Filters[0])
	}
}
