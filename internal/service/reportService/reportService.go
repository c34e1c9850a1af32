package reportService

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/KotFed0t/portfolio_dashboard_bot/internal/model"
	"github.com/KotFed0t/portfolio_dashboard_bot/utils"
)

type ReportGenerator interface {
	Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) (deleted int, err error)
}

type ReportService struct {
	generator ReportGenerator
	storage   CloudStorage
}

func New(generator ReportGenerator, storage CloudStorage) *ReportService {
	return &ReportService{
		generator: generator,
		storage:   storage,
	}
}

// Export generates the report file, uploads it and returns the download link.
func (s *ReportService) Export(ctx context.Context, report model.PortfolioReport) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.Export"

	slog.Debug("Export start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", report.Portfolio.ID))
	defer func() {
		slog.Debug("Export finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", report.Portfolio.ID))
	}()

	fileBytes, ext, err := s.generator.Generate(ctx, report)
	if err != nil {
		slog.Error("got error from generator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	link, err := s.storage.UploadFile(ctx, bytes.NewReader(fileBytes), reportFilename(report, ext))
	if err != nil {
		slog.Error("got error from storage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	return link, nil
}

func (s *ReportService) CleanupOldReports(ctx context.Context) error {
	_, err := s.storage.DeleteOldFiles(ctx)
	return err
}

func reportFilename(report model.PortfolioReport, ext string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, report.Portfolio.Name)
	if name == "" {
		name = "portfolio"
	}
	return fmt.Sprintf("%s_%s%s", name, report.CreatedAt.Format("20060102_150405"), ext)
}
