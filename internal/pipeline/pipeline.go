// Package pipeline chains the four processing stages: PDF extraction, DOCX
// placeholder extraction, merging, and writing the filled template.
package pipeline

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/transportops/auditfill/internal/config"
	"github.com/transportops/auditfill/internal/docx"
	"github.com/transportops/auditfill/internal/docxwriter"
	"github.com/transportops/auditfill/internal/jsonx"
	"github.com/transportops/auditfill/internal/merge"
	"github.com/transportops/auditfill/internal/pdfreport"
	"github.com/transportops/auditfill/internal/redtext"
)

// Artifact file names written into the output directory.
const (
	PDFArtifact         = "pdf_extracted.json"
	DOCXArtifact        = "docx_placeholders.json"
	MergedArtifact      = "merged.json"
	MergeReportArtifact = "merge_report.json"
)

// Pipeline runs stages with shared configuration.
type Pipeline struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

func (p *Pipeline) artifactPath(name string) string {
	return filepath.Join(p.cfg.OutputDir, name)
}

// ExtractPDF runs the PDF stage and writes its artifact.
func (p *Pipeline) ExtractPDF(pdfPath string) (*pdfreport.Report, error) {
	ex := pdfreport.NewExtractor(p.cfg.MaxFileSize, p.cfg.GapTolerance)
	report, err := ex.Extract(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("extract pdf %s: %w", pdfPath, err)
	}
	if p.cfg.KeepIntermediate {
		if err := jsonx.WriteFile(p.artifactPath(PDFArtifact), report); err != nil {
			return nil, err
		}
	}
	log.Printf("pipeline: extracted %d pages, %d tables from %s",
		report.DocumentInfo.TotalPages, report.Summary.TablesFound, filepath.Base(pdfPath))
	return report, nil
}

// ExtractDOCX runs the placeholder stage and writes its artifact.
func (p *Pipeline) ExtractDOCX(docxPath string) (redtext.Result, error) {
	doc, err := docx.Open(docxPath)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", docxPath, err)
	}
	result := redtext.NewExtractor().Extract(doc)
	if p.cfg.KeepIntermediate {
		if err := jsonx.WriteFile(p.artifactPath(DOCXArtifact), result); err != nil {
			return nil, err
		}
	}
	log.Printf("pipeline: found placeholders in %d sections of %s", len(result), filepath.Base(docxPath))
	return result, nil
}

// Merge runs the merge stage and writes the merged artifact and report.
func (p *Pipeline) Merge(docxData redtext.Result, report *pdfreport.Report) (redtext.Result, error) {
	merged, mergeReport := merge.Merge(docxData, report)
	if p.cfg.KeepIntermediate {
		if err := jsonx.WriteFile(p.artifactPath(MergedArtifact), merged); err != nil {
			return nil, err
		}
		if err := jsonx.WriteFile(p.artifactPath(MergeReportArtifact), mergeReport); err != nil {
			return nil, err
		}
	}
	log.Printf("pipeline: merged %d vehicles, %d drivers, %d low-confidence values",
		mergeReport.VehicleCount, mergeReport.DriverCount, len(mergeReport.Flags))
	return merged, nil
}

// Write fills the template with merged values and saves the output document.
func (p *Pipeline) Write(templatePath, outputPath string, merged redtext.Result) error {
	stats, err := docxwriter.WriteFile(templatePath, outputPath, merged)
	if err != nil {
		return err
	}
	if len(stats.Unplaced) > 0 {
		log.Printf("pipeline: %d values could not be placed: %s",
			len(stats.Unplaced), strings.Join(stats.Unplaced, ", "))
	}
	log.Printf("pipeline: wrote %s", outputPath)
	return nil
}

// Run executes the configured stage(s) over the given inputs.
func (p *Pipeline) Run(pdfPath, templatePath, outputPath string) error {
	switch p.cfg.Stage {
	case config.StagePDF:
		_, err := p.ExtractPDF(pdfPath)
		return err

	case config.StageDOCX:
		_, err := p.ExtractDOCX(templatePath)
		return err

	case config.StageMerge:
		report, docxData, err := p.loadStageArtifacts()
		if err != nil {
			return err
		}
		_, err = p.Merge(docxData, report)
		return err

	case config.StageWrite:
		var merged redtext.Result
		if err := jsonx.ReadFile(p.artifactPath(MergedArtifact), &merged); err != nil {
			return fmt.Errorf("load merged artifact: %w", err)
		}
		return p.Write(templatePath, outputPath, merged)

	default: // config.StageAll
		report, err := p.ExtractPDF(pdfPath)
		if err != nil {
			return err
		}
		docxData, err := p.ExtractDOCX(templatePath)
		if err != nil {
			return err
		}
		merged, err := p.Merge(docxData, report)
		if err != nil {
			return err
		}
		return p.Write(templatePath, outputPath, merged)
	}
}

func (p *Pipeline) loadStageArtifacts() (*pdfreport.Report, redtext.Result, error) {
	var report pdfreport.Report
	if err := jsonx.ReadFile(p.artifactPath(PDFArtifact), &report); err != nil {
		return nil, nil, fmt.Errorf("load pdf artifact: %w", err)
	}
	var docxData redtext.Result
	if err := jsonx.ReadFile(p.artifactPath(DOCXArtifact), &docxData); err != nil {
		return nil, nil, fmt.Errorf("load docx artifact: %w", err)
	}
	return &report, docxData, nil
}
