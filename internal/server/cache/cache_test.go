package cache

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentstation/factmerge/pkg/facts"
)

// TestCache_New tests cache creation.
func TestCache_New(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.store == nil {
		t.Error("cache store not initialized")
	}
}

// TestCache_BasicOperations tests Get, Set, and Delete.
func TestCache_BasicOperations(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	result := &facts.MergeResult{TotalFactsMerged: 3}

	t.Run("Set and Get", func(t *testing.T) {
		c.Set("key1", result)

		got, found := c.Get("key1")
		if !found {
			t.Fatal("expected key1 to be found")
		}
		if got != result {
			t.Errorf("expected the stored result, got %v", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		if _, found := c.Get("nonexistent"); found {
			t.Error("expected nonexistent key to not be found")
		}
	})

	t.Run("Set and Delete", func(t *testing.T) {
		c.Set("key2", result)
		c.Delete("key2")

		if _, found := c.Get("key2"); found {
			t.Error("expected key2 to be deleted")
		}
	})
}

// TestCache_Expiry tests that entries expire after the default TTL.
func TestCache_Expiry(t *testing.T) {
	c := New(50*time.Millisecond, 10*time.Millisecond)
	c.Set("key", &facts.MergeResult{})

	time.Sleep(100 * time.Millisecond)

	if _, found := c.Get("key"); found {
		t.Error("expected key to expire")
	}
}

// TestCache_Clear tests removing every entry.
func TestCache_Clear(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, &facts.MergeResult{})
	}
	if c.ItemCount() != 3 {
		t.Fatalf("expected 3 items, got %d", c.ItemCount())
	}

	c.Clear()

	if c.GetStats().ItemCount != 0 {
		t.Errorf("expected empty cache, got %d items", c.GetStats().ItemCount)
	}
}

// TestCache_ConcurrentAccess tests thread-safety.
func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			c.Set(key, &facts.MergeResult{TotalFilesProcessed: i})
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.ItemCount() != 26 {
		t.Errorf("expected 26 items, got %d", c.ItemCount())
	}
}

func keyOf(t *testing.T, files ...[2]string) string {
	t.Helper()
	k := NewKey()
	for _, f := range files {
		if err := k.Add(f[0], strings.NewReader(f[1])); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
	}
	return k.String()
}

// TestKey tests that keys depend on names, contents and order.
func TestKey(t *testing.T) {
	base := keyOf(t, [2]string{"a.csv", "x,y"}, [2]string{"b.txt", "Name: Jo"})

	if got := keyOf(t, [2]string{"a.csv", "x,y"}, [2]string{"b.txt", "Name: Jo"}); got != base {
		t.Error("same uploads produced different keys")
	}

	tests := map[string]string{
		"renamed":   keyOf(t, [2]string{"c.csv", "x,y"}, [2]string{"b.txt", "Name: Jo"}),
		"edited":    keyOf(t, [2]string{"a.csv", "x,z"}, [2]string{"b.txt", "Name: Jo"}),
		"reordered": keyOf(t, [2]string{"b.txt", "Name: Jo"}, [2]string{"a.csv", "x,y"}),
		"shifted":   keyOf(t, [2]string{"a.csv", "x,yb.txt"}, [2]string{"", "Name: Jo"}),
	}
	for name, key := range tests {
		if key == base {
			t.Errorf("%s uploads collided with the base key", name)
		}
	}

	if len(base) != 64 {
		t.Errorf("expected a hex sha256 digest, got %q", base)
	}
}
