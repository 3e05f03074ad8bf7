package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Report is the YAML run report written next to the output files. It
// records what was read, what was written and what was excluded, so a
// data-quality review does not require re-running the pipeline.
type Report struct {
	RunID       string `yaml:"run_id"`
	GeneratedAt string `yaml:"generated_at"`
	InputFile   string `yaml:"input_file"`

	Outputs struct {
		Constituents string `yaml:"constituents"`
		Tags         string `yaml:"tags"`
	} `yaml:"outputs"`

	Stats     Stats  `yaml:"stats"`
	DurationS string `yaml:"duration"`
}

// writeReport serializes the run report. The file name carries the run
// timestamp and a short run ID, matching report_20240115_143052_a1b2c3d4.yaml.
func (p *Pipeline) writeReport(res *Result) (string, error) {
	rep := Report{
		RunID:       res.RunID,
		GeneratedAt: time.Now().Format(time.RFC3339),
		InputFile:   p.cfg.InputFile,
		Stats:       res.Stats,
		DurationS:   res.Stats.Duration.String(),
	}
	rep.Outputs.Constituents = res.ConstituentsFile
	rep.Outputs.Tags = res.TagsFile

	data, err := yaml.Marshal(&rep)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	name := fmt.Sprintf("report_%s_%s.yaml",
		time.Now().Format("20060102_150405"), res.RunID[:8])
	path := filepath.Join(p.cfg.OutputDir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
