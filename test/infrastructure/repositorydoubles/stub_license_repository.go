//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

// StubLicenseRepository implements repositories.LicenseRepository by building records
// from the dependency metadata and a configured license text per dependency name.
type StubLicenseRepository struct {
	Texts    map[string]string // dependency name -> license text
	Licenses map[string]string // dependency name -> classification, "mit" when absent
	Err      error
	Calls    []string
}

var _ repositories.LicenseRepository = (*StubLicenseRepository)(nil)

func (s *StubLicenseRepository) Record(
	_ context.Context,
	dependency *entities.Dependency,
) (*entities.DependencyRecord, error) {
	s.Calls = append(s.Calls, dependency.Name)
	if s.Err != nil {
		return nil, s.Err
	}
	if dependency.HasErrors() {
		return nil, nil
	}

	text, ok := s.Texts[dependency.Name]
	if !ok {
		text = "Permission is hereby granted, free of charge, to any person obtaining a copy"
	}
	license, ok := s.Licenses[dependency.Name]
	if !ok {
		license = "mit"
	}

	metadata := dependency.RecordMetadata()
	metadata[entities.MetadataLicense] = license
	return entities.NewDependencyRecord(
		metadata,
		[]entities.LicenseText{{Sources: "LICENSE", Text: text}},
		nil,
	), nil
}
