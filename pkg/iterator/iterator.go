// Package iterator implements the crawler's lazy, ordered, pushback-capable
// depth-first file walk of one root (spec component C5). State is an
// explicit stack of (directory, remaining-children) frames rather than the
// call stack, since a transient failure must be restartable mid-walk and a
// single item must be pushable back onto the front of the stream.
package iterator

import (
	"context"
	"io"
	"time"

	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/log"
	"github.com/wiarlawd/fs-crawler/pkg/match"
)

var logger = log.New("iterator")

// ErrDone is returned by Next once the walk is exhausted.
var ErrDone = io.EOF

// Options configures one walk.
type Options struct {
	// Matcher admits or rejects regular files by path; nil admits everything.
	Matcher *match.Matcher
	// IfModifiedSince is the incremental cutoff: a regular file is only
	// returned if its LastModified is >= this time. The zero Time admits
	// every file (a forced-full cycle).
	IfModifiedSince time.Time
	// DirectoriesReturned enables directories-returned mode (spec.md §4.5):
	// directories are yielded by Next alongside regular files, so their
	// inheritance ACL documents can be emitted.
	DirectoriesReturned bool
}

type frame struct {
	dir       fs.File
	remaining []fs.File
}

// Iterator walks one root depth-first in the adjusted lexicographic order
// fs.SortChildren establishes for each directory's children.
type Iterator struct {
	opts     Options
	stack    []frame
	pushback fs.File
	hasPushback bool
}

// New starts a walk rooted at root. root's own children are listed and
// pushed as the first frame; root itself is never yielded (the traverser
// handles the root specially per spec.md §4.6's root-special-case).
func New(ctx context.Context, root fs.File, opts Options) (*Iterator, error) {
	children, err := root.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	return &Iterator{
		opts:  opts,
		stack: []frame{{dir: root, remaining: children}},
	}, nil
}

// PushBack stores f as the single pending item; the next Next call returns
// it before consuming anything further from the stack. Calling PushBack a
// second time before an intervening Next is a programming error: per
// spec.md §4.5 it does not define a merge or queueing semantics, so this
// panics rather than silently dropping or ordering the first item.
func (it *Iterator) PushBack(f fs.File) {
	if it.hasPushback {
		panic("iterator: PushBack called with a pending pushback item")
	}
	it.pushback = f
	it.hasPushback = true
}

// Next returns the next accepted file or directory in depth-first order,
// or ErrDone once the walk is exhausted. A transient errtypes.IsRepository
// error bubbles out with the offending file left at the head of its
// directory's queue, so the caller can pause and retry it by calling Next again.
func (it *Iterator) Next(ctx context.Context) (fs.File, error) {
	if it.hasPushback {
		f := it.pushback
		it.pushback = nil
		it.hasPushback = false
		return f, nil
	}

	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if len(top.remaining) == 0 {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		child := top.remaining[0]
		top.remaining = top.remaining[1:]
		// requeue puts child back at the head of its frame so the next call retries it.
		requeue := func(err error) (fs.File, error) {
			top.remaining = append([]fs.File{child}, top.remaining...)
			return nil, err
		}

		hidden, err := child.IsHidden()
		if err != nil {
			if errtypes.IsRepositoryError(err) {
				return requeue(err)
			}
			logger.Debug().Err(err).Str("path", child.Path()).Msg("skipping file: could not determine hidden state")
			continue
		}
		if hidden {
			logger.Debug().Str("path", child.Path()).Msg("skipping hidden file or directory")
			continue
		}

		isDir, err := child.IsDirectory()
		if err != nil {
			if errtypes.IsRepositoryError(err) {
				return requeue(err)
			}
			logger.Debug().Err(err).Str("path", child.Path()).Msg("skipping file: could not stat")
			continue
		}

		if isDir {
			grandchildren, err := child.ListFiles(ctx)
			if err != nil {
				if errtypes.IsDirectoryListingError(err) {
					logger.Warn().Err(err).Str("path", child.Path()).Msg("skipping unlistable subtree")
					continue
				}
				if errtypes.IsRepositoryError(err) {
					return requeue(err)
				}
				logger.Warn().Err(err).Str("path", child.Path()).Msg("skipping subtree")
				continue
			}
			it.stack = append(it.stack, frame{dir: child, remaining: grandchildren})
			if it.opts.DirectoriesReturned {
				return child, nil
			}
			continue
		}

		isRegular, err := child.IsRegularFile()
		if err != nil {
			if errtypes.IsRepositoryError(err) {
				return requeue(err)
			}
			logger.Debug().Err(err).Str("path", child.Path()).Msg("skipping non-regular file")
			continue
		}
		if !isRegular {
			continue
		}

		if it.opts.Matcher != nil && !it.opts.Matcher.Accept(child.Path()) {
			continue
		}

		lastMod, err := child.LastModified()
		if err != nil {
			if errtypes.IsRepositoryError(err) {
				return requeue(err)
			}
			logger.Debug().Err(err).Str("path", child.Path()).Msg("skipping file: could not read last-modified")
			continue
		}
		if lastMod.Before(it.opts.IfModifiedSince) {
			continue
		}

		return child, nil
	}

	return nil, ErrDone
}
