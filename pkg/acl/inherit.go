package acl

// InheritKind discriminates the InheritFrom tagged variant (REDESIGN FLAGS:
// the Java implementation expressed this as a nullable docid string; here it
// is an explicit sum type, resolved to a docid only at serialization time).
type InheritKind int

const (
	// KindNone means the document carries no inherited ACL at all (legacy
	// flat-ACL mode, public documents, the share-ACL document, and a root
	// that is itself a plain file). The filesystem type is not consulted.
	KindNone InheritKind = iota
	// KindParentFiles points at the parent directory's file-inherit ACL
	// document (filesAcl:<parent>) — used by content documents.
	KindParentFiles
	// KindParentContainers points at the parent directory's
	// container-inherit ACL document (foldersAcl:<parent>) — used by a
	// directory's own container-inherit document.
	KindParentContainers
	// KindShare points at the root share-ACL document (shareAcl:<root>).
	KindShare
)

// InheritFrom is the tagged pointer a document carries to the ACL document
// it inherits from. Path is the directory (for KindParentFiles/
// KindParentContainers) or the root (for KindShare); it is ignored for
// KindNone.
type InheritFrom struct {
	Kind InheritKind
	Path string
}

// None is the zero InheritFrom: no inheritance pointer.
func None() InheritFrom { return InheritFrom{Kind: KindNone} }

// ParentFiles points at the file-inherit ACL document of the directory at path.
func ParentFiles(path string) InheritFrom { return InheritFrom{Kind: KindParentFiles, Path: path} }

// ParentContainers points at the container-inherit ACL document of the directory at path.
func ParentContainers(path string) InheritFrom {
	return InheritFrom{Kind: KindParentContainers, Path: path}
}

// Share points at the share-ACL document of the root at rootPath.
func Share(rootPath string) InheritFrom { return InheritFrom{Kind: KindShare, Path: rootPath} }

// Docid resolves the tagged pointer to the reserved-prefix docid string it
// names, or "" for KindNone.
func (f InheritFrom) Docid() string {
	switch f.Kind {
	case KindParentFiles:
		return FilesAclDocid(f.Path)
	case KindParentContainers:
		return FoldersAclDocid(f.Path)
	case KindShare:
		return ShareAclDocid(f.Path)
	default:
		return ""
	}
}

// Reserved docid prefixes (spec.md §6 "Docid format"); these must never
// collide with a real filesystem path.
const (
	shareAclPrefix   = "shareAcl:"
	foldersAclPrefix = "foldersAcl:"
	filesAclPrefix   = "filesAcl:"
)

func ShareAclDocid(rootPath string) string  { return shareAclPrefix + rootPath }
func FoldersAclDocid(dirPath string) string { return foldersAclPrefix + dirPath }
func FilesAclDocid(dirPath string) string   { return filesAclPrefix + dirPath }

// ParseDocid reverses {Share,Folders,Files}AclDocid: given any docid, it
// reports which reserved kind produced it (KindNone for a plain content
// path) and the path that was embedded in it.
func ParseDocid(docid string) (kind InheritKind, path string) {
	switch {
	case len(docid) > len(shareAclPrefix) && docid[:len(shareAclPrefix)] == shareAclPrefix:
		return KindShare, docid[len(shareAclPrefix):]
	case len(docid) > len(foldersAclPrefix) && docid[:len(foldersAclPrefix)] == foldersAclPrefix:
		return KindParentContainers, docid[len(foldersAclPrefix):]
	case len(docid) > len(filesAclPrefix) && docid[:len(filesAclPrefix)] == filesAclPrefix:
		return KindParentFiles, docid[len(filesAclPrefix):]
	default:
		return KindNone, docid
	}
}
