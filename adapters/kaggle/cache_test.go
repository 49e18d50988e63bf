package kaggle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoeda/ports"
)

func fakeClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestListingCachePutGet(t *testing.T) {
	cache := newListingCache(4)
	sess := &Session{cred: Credential{Username: "alice", Key: "k"}}
	listing := &ports.DatasetListing{Dir: "/tmp/x"}

	cache.put(listingKey{session: sess, ref: "acme/iris"}, listing)

	got, ok := cache.get(listingKey{session: sess, ref: "acme/iris"})
	require.True(t, ok)
	assert.Same(t, listing, got)

	_, ok = cache.get(listingKey{session: sess, ref: "acme/wine"})
	assert.False(t, ok)
}

func TestListingCacheEvictsOldest(t *testing.T) {
	cache := newListingCache(2)
	cache.now = fakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sess := &Session{cred: Credential{Username: "alice", Key: "k"}}

	keyA := listingKey{session: sess, ref: "acme/a"}
	keyB := listingKey{session: sess, ref: "acme/b"}
	keyC := listingKey{session: sess, ref: "acme/c"}

	cache.put(keyA, &ports.DatasetListing{Dir: "/tmp/a"})
	cache.put(keyB, &ports.DatasetListing{Dir: "/tmp/b"})
	cache.put(keyC, &ports.DatasetListing{Dir: "/tmp/c"})

	_, ok := cache.get(keyA)
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = cache.get(keyB)
	assert.True(t, ok)
	_, ok = cache.get(keyC)
	assert.True(t, ok)
	assert.Equal(t, 2, cache.len())
}

func TestListingCacheOverwriteDoesNotEvict(t *testing.T) {
	cache := newListingCache(1)
	cache.now = fakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sess := &Session{cred: Credential{Username: "alice", Key: "k"}}
	key := listingKey{session: sess, ref: "acme/a"}

	cache.put(key, &ports.DatasetListing{Dir: "/tmp/old"})
	replacement := &ports.DatasetListing{Dir: "/tmp/new"}
	cache.put(key, replacement)

	got, ok := cache.get(key)
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, cache.len())
}

func TestListingCacheKeyedBySession(t *testing.T) {
	cache := newListingCache(4)
	alice := &Session{cred: Credential{Username: "alice", Key: "k"}}
	bob := &Session{cred: Credential{Username: "bob", Key: "k2"}}

	aliceListing := &ports.DatasetListing{Dir: "/tmp/alice"}
	cache.put(listingKey{session: alice, ref: "acme/iris"}, aliceListing)

	_, ok := cache.get(listingKey{session: bob, ref: "acme/iris"})
	assert.False(t, ok, "another session must not see the cached listing")

	got, ok := cache.get(listingKey{session: alice, ref: "acme/iris"})
	require.True(t, ok)
	assert.Same(t, aliceListing, got)
}
