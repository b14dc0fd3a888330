// Package assets indexes the delivery and image trees and resolves each
// product's download target and cover image. Everything here is a pure
// function of the injected path lists; existence checks belong to verify.
package assets

import (
	"path"
	"strings"

	"github.com/inkchain/storecatalog/internal/domain"
)

// Candidate is one delivery file that may belong to a product
type Candidate struct {
	Path          string          `json:"path"`
	Ext           string          `json:"ext"`
	CategoryGuess domain.Category `json:"categoryGuess"`
}

// Index maps candidate ids to their delivery files, in scan order
type Index struct {
	prefix string
	order  []string
	byID   map[string][]Candidate
}

var folderCategory = map[string]domain.Category{
	"prompts": domain.CategoryPrompt,
	"ebooks":  domain.CategoryEbook,
	"images":  domain.CategoryImage,
	"videos":  domain.CategoryVideo,
	"nfts":    domain.CategoryNFT,
}

var categoryFolder = map[domain.Category]string{
	domain.CategoryPrompt: "prompts",
	domain.CategoryEbook:  "ebooks",
	domain.CategoryImage:  "images",
	domain.CategoryVideo:  "videos",
	domain.CategoryNFT:    "nfts",
}

// CandidateID derives a product id from a file name: the extension and any
// "__suffix" are dropped and the rest is upper-cased.
func CandidateID(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))
	if i := strings.Index(base, "__"); i >= 0 {
		base = base[:i]
	}
	return domain.NormalizeID(base)
}

// GuessCategory infers a category from the top-level folder of a relative path
func GuessCategory(rel string) domain.Category {
	i := strings.Index(rel, "/")
	if i < 0 {
		return domain.CategoryPrompt
	}
	if c, ok := folderCategory[strings.ToLower(rel[:i])]; ok {
		return c
	}
	return domain.CategoryPrompt
}

// BuildIndex indexes relative, slash-separated paths found under the delivery
// root. prefix is the public URL path of that root, e.g. "/products".
func BuildIndex(rels []string, prefix string) *Index {
	idx := &Index{prefix: cleanPrefix(prefix), byID: make(map[string][]Candidate)}
	for _, rel := range rels {
		rel = strings.TrimPrefix(rel, "/")
		id := CandidateID(rel)
		if id == "" {
			continue
		}
		if _, seen := idx.byID[id]; !seen {
			idx.order = append(idx.order, id)
		}
		idx.byID[id] = append(idx.byID[id], Candidate{
			Path:          idx.prefix + "/" + rel,
			Ext:           strings.ToLower(path.Ext(rel)),
			CategoryGuess: GuessCategory(rel),
		})
	}
	return idx
}

// IDs returns candidate ids in first-seen order
func (i *Index) IDs() []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.order...)
}

// Candidates returns a copy of the files indexed under id
func (i *Index) Candidates(id string) []Candidate {
	if i == nil {
		return nil
	}
	return append([]Candidate(nil), i.byID[domain.NormalizeID(id)]...)
}

// Len returns the number of distinct ids
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.order)
}

// Prefix returns the public URL path of the delivery root
func (i *Index) Prefix() string {
	if i == nil {
		return "/products"
	}
	return i.prefix
}

func cleanPrefix(p string) string {
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	if p == "/" {
		return ""
	}
	return p
}

// ImageIndex is a case-insensitive lookup over the image tree
type ImageIndex struct {
	prefix string
	files  []string
	lower  map[string]string
}

// NewImageIndex indexes relative, slash-separated image paths. prefix is the
// public URL path of the image root, e.g. "/images".
func NewImageIndex(rels []string, prefix string) *ImageIndex {
	idx := &ImageIndex{prefix: cleanPrefix(prefix), lower: make(map[string]string, len(rels))}
	for _, rel := range rels {
		rel = strings.TrimPrefix(rel, "/")
		idx.files = append(idx.files, rel)
		key := strings.ToLower(rel)
		if _, ok := idx.lower[key]; !ok {
			idx.lower[key] = rel
		}
	}
	return idx
}

// Lookup finds rel ignoring case and returns the stored spelling
func (i *ImageIndex) Lookup(rel string) (string, bool) {
	if i == nil {
		return "", false
	}
	v, ok := i.lower[strings.ToLower(strings.TrimPrefix(rel, "/"))]
	return v, ok
}

// Files returns every indexed image path
func (i *ImageIndex) Files() []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.files...)
}

// Prefix returns the public URL path of the image root
func (i *ImageIndex) Prefix() string {
	if i == nil {
		return "/images"
	}
	return i.prefix
}
