package service

import (
	"context"

	"github.com/rs/zerolog"

	"ngplus/api/internal/models"
	"ngplus/api/internal/reports"
)

// ReportStore is the slice of the repositories the report runs need: the full
// dataset, joins included.
type ReportStore interface {
	ListAllUsers(ctx context.Context) ([]models.User, error)
	ListAllMedia(ctx context.Context) ([]models.Media, error)
	ListAllRatings(ctx context.Context) ([]models.Rating, error)
}

type ReportService struct {
	store ReportStore
	log   zerolog.Logger
}

func NewReportService(store ReportStore, log zerolog.Logger) *ReportService {
	return &ReportService{store: store, log: log}
}

func (s *ReportService) dataset(ctx context.Context) (reports.Dataset, error) {
	users, err := s.store.ListAllUsers(ctx)
	if err != nil {
		return reports.Dataset{}, err
	}
	media, err := s.store.ListAllMedia(ctx)
	if err != nil {
		return reports.Dataset{}, err
	}
	ratings, err := s.store.ListAllRatings(ctx)
	if err != nil {
		return reports.Dataset{}, err
	}
	return reports.Dataset{Users: users, Media: media, Ratings: ratings}, nil
}

// PDF materializes the dataset and renders the document report.
func (s *ReportService) PDF(ctx context.Context) ([]byte, error) {
	data, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	out, err := reports.BuildPDF(data)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int("users", len(data.Users)).
		Int("media", len(data.Media)).
		Int("ratings", len(data.Ratings)).
		Msg("pdf report generated")
	return out, nil
}

// XLSX materializes the dataset and renders the workbook report.
func (s *ReportService) XLSX(ctx context.Context) ([]byte, error) {
	data, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	out, err := reports.BuildXLSX(data)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int("users", len(data.Users)).
		Int("media", len(data.Media)).
		Int("ratings", len(data.Ratings)).
		Msg("xlsx report generated")
	return out, nil
}
