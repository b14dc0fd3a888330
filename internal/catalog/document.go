package catalog

import (
	"os"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/inkchain/storecatalog/internal/sources"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReadDocument loads a generated catalog document
func ReadDocument(path string) (*domain.CatalogDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(domain.ErrSourceUnavailable, err.Error())
	}
	doc := new(domain.CatalogDocument)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(domain.ErrMalformedDocument, err.Error())
	}
	if doc.Products == nil {
		doc.Products = []domain.ProductRecord{}
	}
	return doc, nil
}

// WriteDocument replaces the generated catalog document at path
func WriteDocument(path string, doc domain.CatalogDocument) error {
	if doc.Products == nil {
		doc.Products = []domain.ProductRecord{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode catalog document")
	}
	return sources.WriteFileAtomic(path, data)
}
