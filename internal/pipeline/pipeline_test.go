package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transportops/auditfill/internal/config"
	"github.com/transportops/auditfill/internal/jsonx"
	"github.com/transportops/auditfill/internal/merge"
	"github.com/transportops/auditfill/internal/pdfreport"
	"github.com/transportops/auditfill/internal/redtext"
)

func TestMergeStageFromArtifacts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Stage = config.StageMerge

	report := &pdfreport.Report{
		Extracted: pdfreport.ExtractedData{
			AllTables: []pdfreport.Table{
				{RawData: [][]string{
					{"Date of Audit", "14/03/2023"},
					{"Location of audit", "Depot Road, Dubbo NSW"},
					{"Auditor name", "Greg Dyer"},
				}, RowCount: 3},
			},
		},
	}
	docxData := redtext.Result{
		"Audit Information": {
			"Date of Audit":     {},
			"Location of audit": {},
		},
	}
	require.NoError(t, jsonx.WriteFile(filepath.Join(cfg.OutputDir, PDFArtifact), report))
	require.NoError(t, jsonx.WriteFile(filepath.Join(cfg.OutputDir, DOCXArtifact), docxData))

	require.NoError(t, New(cfg).Run("", "", ""))

	var merged redtext.Result
	require.NoError(t, jsonx.ReadFile(filepath.Join(cfg.OutputDir, MergedArtifact), &merged))
	assert.Equal(t, []string{"14/03/2023"}, merged["Audit Information"]["Date of Audit"])
	assert.Equal(t, []string{"Depot Road, Dubbo NSW"}, merged["Audit Information"]["Location of audit"])

	var rep merge.Report
	require.NoError(t, jsonx.ReadFile(filepath.Join(cfg.OutputDir, MergeReportArtifact), &rep))
	assert.GreaterOrEqual(t, rep.SectionsFilled, 1)
}

func TestMergeStageMissingArtifacts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Stage = config.StageMerge

	err := New(cfg).Run("", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf artifact")
}

func TestArtifactPathJoinsOutputDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	p := New(cfg)
	assert.Equal(t, filepath.Join(cfg.OutputDir, MergedArtifact), p.artifactPath(MergedArtifact))
}
