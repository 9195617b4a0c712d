package config

import "github.com/mitchellh/mapstructure"

// Credentials is the (domain, user, password) triple used to authenticate
// against SMB shares. Shared per-connector and immutable once loaded.
type Credentials struct {
	Domain   string `mapstructure:"domain"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Options holds every recognized key from spec.md §6, decoded from the
// "crawler" config section.
type Options struct {
	StartPaths []string `mapstructure:"start_paths"`

	PushAcls               bool `mapstructure:"push_acls"`
	MarkAllDocumentsPublic  bool `mapstructure:"mark_all_documents_public"`
	SupportsInheritedAcls   bool `mapstructure:"supports_inherited_acls"`

	AceSecurityLevel string `mapstructure:"ace_security_level"`
	UserAclFormat    string `mapstructure:"user_acl_format"`
	GroupAclFormat   string `mapstructure:"group_acl_format"`

	LastAccessResetFlagForSMB          bool `mapstructure:"last_access_reset_flag_for_smb"`
	LastAccessResetFlagForLocalWindows bool `mapstructure:"last_access_reset_flag_for_local_windows"`

	IfModifiedSinceCushionMinutes int `mapstructure:"if_modified_since_cushion_minutes"`
	FullTraversalIntervalDays    int `mapstructure:"full_traversal_interval_days"`

	ThreadPoolSize     int  `mapstructure:"thread_pool_size"`
	UseAuthzOnAclError bool `mapstructure:"use_authz_on_acl_error"`

	// MaxDocumentSizeBytes bounds what the retriever will read back for a
	// content docid (spec.md §4.9 "TraversalContext.maxDocumentSize").
	MaxDocumentSizeBytes int64 `mapstructure:"max_document_size_bytes"`

	Credentials Credentials `mapstructure:"credentials"`

	Include []string `mapstructure:"include_patterns"`
	Exclude []string `mapstructure:"exclude_patterns"`
}

// Default returns an Options value with every spec-mandated default applied:
// a 10-worker pool, a 1-hour ifModifiedSince cushion, and incremental-only
// traversal (fullTraversalIntervalDays < 0).
func Default() Options {
	return Options{
		ThreadPoolSize:                10,
		IfModifiedSinceCushionMinutes: 60,
		FullTraversalIntervalDays:     -1,
		AceSecurityLevel:              "FILEORSHARE",
		UserAclFormat:                 "USER",
		GroupAclFormat:                "GROUP",
		Include:                       []string{""},
		MaxDocumentSizeBytes:          4 << 30,
	}
}

// Load decodes the "crawler" config section over the spec-mandated
// defaults, so a config file only needs to set what it wants to override.
func Load() (Options, error) {
	opts := Default()
	if err := mapstructure.Decode(Get("crawler"), &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
