package acl

import (
	"time"

	"github.com/jellydator/ttlcache/v2"

	"github.com/wiarlawd/fs-crawler/pkg/log"
)

var logger = log.New("acl")

// RawEntry is one access-control entry as read off a filesystem, before
// formatting: which principal, allow or deny, user or group.
type RawEntry struct {
	Principal Principal
	Allow     bool
	IsGroup   bool
}

// Options configures a Builder per spec.md §6: the security level that
// decides which ACLs get emitted, the principal rendering formats, and
// whether inherited-ACL mode (deny sets honored) or legacy flat mode
// (allow sets only) is in effect.
type Options struct {
	SecurityLevel        SecurityLevel
	UserFormat           Format
	GroupFormat          Format
	SupportsInheritedAcls bool
	CacheTTL             time.Duration
}

// DefaultCacheTTL matches the builder's default resolved-ACL cache lifetime.
const DefaultCacheTTL = 5 * time.Minute

// Builder assembles ACL values from raw filesystem entries and caches
// resolved (determinate) ACLs per resource, since the same directory's ACL
// is typically consulted for every child beneath it during one traversal.
type Builder struct {
	opts  Options
	cache *ttlcache.Cache
}

// NewBuilder constructs a Builder. A zero CacheTTL falls back to DefaultCacheTTL.
func NewBuilder(opts Options) *Builder {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cache := ttlcache.NewCache()
	_ = cache.SetTTL(ttl)
	cache.SkipTTLExtensionOnHit(true)
	return &Builder{opts: opts, cache: cache}
}

// Build renders raw entries into an ACL. In legacy mode (SupportsInheritedAcls
// false) only allow sets are populated, per spec.md §4.4's "legacy ACL mode
// combines allow-users and allow-groups only".
func (b *Builder) Build(entries []RawEntry) ACL {
	a := ACL{IsDeterminate: true}
	for _, e := range entries {
		switch {
		case e.Allow && e.IsGroup:
			a.AllowGroups = append(a.AllowGroups, e.Principal)
		case e.Allow && !e.IsGroup:
			a.AllowUsers = append(a.AllowUsers, e.Principal)
		case !e.Allow && e.IsGroup && b.opts.SupportsInheritedAcls:
			a.DenyGroups = append(a.DenyGroups, e.Principal)
		case !e.Allow && !e.IsGroup && b.opts.SupportsInheritedAcls:
			a.DenyUsers = append(a.DenyUsers, e.Principal)
		}
	}
	return a
}

// Resolve builds (or returns the cached copy of) the ACL for key, invoking
// fetch only on a cache miss. Any error from fetch is returned as-is and
// nothing is cached for key; only ACLs built from successfully fetched
// entries are cached.
func (b *Builder) Resolve(key string, fetch func() ([]RawEntry, error)) (ACL, error) {
	if cached, err := b.cache.Get(key); err == nil {
		return cached.(ACL), nil
	}
	entries, err := fetch()
	if err != nil {
		return ACL{}, err
	}
	a := b.Build(entries)
	if setErr := b.cache.Set(key, a); setErr != nil {
		logger.Warn().Err(setErr).Str("key", key).Msg("acl cache set failed")
	}
	return a, nil
}

// RenderAllowUsers formats an ACL's allow-user principals per opts.UserFormat.
func (b *Builder) RenderAllowUsers(a ACL) []string  { return renderAll(a.AllowUsers, b.opts.UserFormat) }
func (b *Builder) RenderAllowGroups(a ACL) []string { return renderAll(a.AllowGroups, b.opts.GroupFormat) }
func (b *Builder) RenderDenyUsers(a ACL) []string    { return renderAll(a.DenyUsers, b.opts.UserFormat) }
func (b *Builder) RenderDenyGroups(a ACL) []string   { return renderAll(a.DenyGroups, b.opts.GroupFormat) }

func renderAll(ps []Principal, f Format) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Render(f)
	}
	return out
}

// Close releases the builder's cache resources.
func (b *Builder) Close() error {
	return b.cache.Close()
}
