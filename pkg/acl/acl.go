// Package acl implements the crawler's ACL model and builder (spec
// component C4): principal sets with allow/deny semantics, the security
// levels that decide which ACLs get emitted, and the inheritance-aware
// pointer graph that lets a downstream index reproduce Windows-style
// permission inheritance from a tree of synthetic documents.
package acl

// SecurityLevel controls which ACLs are authoritative for access: the
// file's own ACL, the SMB share ACL, either, or both.
type SecurityLevel int

const (
	SecurityFile SecurityLevel = iota
	SecurityShare
	SecurityFileOrShare
	SecurityFileAndShare
)

// ParseSecurityLevel maps the config-file spelling from spec.md §6 onto a
// SecurityLevel.
func ParseSecurityLevel(raw string) (SecurityLevel, bool) {
	switch raw {
	case "FILE":
		return SecurityFile, true
	case "SHARE":
		return SecurityShare, true
	case "FILEORSHARE":
		return SecurityFileOrShare, true
	case "FILEANDSHARE":
		return SecurityFileAndShare, true
	default:
		return 0, false
	}
}

// ACL is the crawler's internal representation of a filesystem ACL: four
// principal sets plus two flags. It is a value type; callers build one with
// a Builder and never mutate it in place afterward.
type ACL struct {
	AllowUsers  []Principal
	AllowGroups []Principal
	DenyUsers   []Principal
	DenyGroups  []Principal

	// IsPublic, when true, means no principals are present and any
	// authenticated user is authorized; principals and IsPublic are
	// mutually exclusive.
	IsPublic bool

	// IsDeterminate false is a sentinel meaning resolution failed and the
	// ACL must not be emitted; the caller falls back to per-request
	// authorization instead (see config.Options.UseAuthzOnAclError).
	IsDeterminate bool
}

// Indeterminate is the canonical non-resolvable ACL. Emit nothing and let
// the caller's use-authz-on-error fallback take over.
var Indeterminate = ACL{IsDeterminate: false}

// Public is the canonical all-principals-authorized ACL.
var Public = ACL{IsPublic: true, IsDeterminate: true}

// Empty reports whether the ACL carries no principals in any set.
func (a ACL) Empty() bool {
	return len(a.AllowUsers) == 0 && len(a.AllowGroups) == 0 &&
		len(a.DenyUsers) == 0 && len(a.DenyGroups) == 0
}
