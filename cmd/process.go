package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscout/internal/batch"
	"github.com/sells-group/leadscout/internal/export"
	"github.com/sells-group/leadscout/internal/jobs"
	"github.com/sells-group/leadscout/internal/model"
)

var (
	processPost     string
	processURLs     []string
	processFile     string
	processCriteria string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a post's reactors or a list of profiles and print the final job as JSON",
	Example: `  leadscout process --post https://www.linkedin.com/feed/update/urn:li:activity:7393603376913149952/
  leadscout process --url https://www.linkedin.com/in/jane-doe --url https://www.linkedin.com/in/john-roe
  leadscout process --file profiles.xlsx --criteria criteria.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := processSource(processPost, processURLs, processFile)
		if err != nil {
			return err
		}
		criteria, err := loadCriteria(processCriteria)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initApp(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		if ps, ok := src.(*batch.PostSource); ok {
			ps.Fetcher = env.Enricher
		}
		return runJob(ctx, env.Registry, env.Orchestrator, src, criteria, cmd.OutOrStdout())
	},
}

func init() {
	processCmd.Flags().StringVar(&processPost, "post", "", "post URL or activity id whose reactors to process")
	processCmd.Flags().StringSliceVar(&processURLs, "url", nil, "profile URL (repeatable)")
	processCmd.Flags().StringVar(&processFile, "file", "", "xlsx file with profile URLs in the first column")
	processCmd.Flags().StringVar(&processCriteria, "criteria", "", "YAML file with custom evaluation criteria")
	rootCmd.AddCommand(processCmd)
}

// jobRunner runs one batch on the calling goroutine.
type jobRunner interface {
	Run(ctx context.Context, jobID string, src batch.Source, criteria *model.EvaluationCriteria) error
}

// runJob creates a job, runs it to completion and prints its snapshot.
func runJob(ctx context.Context, registry jobs.Registry, runner jobRunner, src batch.Source, criteria *model.EvaluationCriteria, out io.Writer) error {
	job, err := registry.Create(ctx, src.Describe(), 0)
	if err != nil {
		return eris.Wrap(err, "process: create job")
	}

	runErr := runner.Run(ctx, job.ID, src, criteria)

	final, err := registry.Get(context.WithoutCancel(ctx), job.ID)
	if err != nil {
		return eris.Wrap(err, "process: read job")
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(final); err != nil {
		return eris.Wrap(err, "process: encode job")
	}

	zap.L().Info("process: job finished",
		zap.String("job_id", final.ID),
		zap.String("status", string(final.Status)),
		zap.Int("leads", len(final.Leads)),
		zap.Int("skipped", len(final.Skipped)),
		zap.Int("deduplicated", final.Progress.Deduplicated),
	)
	return runErr
}

// processSource picks exactly one of --post, --url or --file. The post source
// gets its fetcher once the pipeline is built.
func processSource(post string, urls []string, file string) (batch.Source, error) {
	set := 0
	for _, ok := range []bool{post != "", len(urls) > 0, file != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, eris.New("process: exactly one of --post, --url or --file is required")
	}

	if post != "" {
		return batch.NewPostSource(post, nil), nil
	}
	if file != "" {
		read, err := export.ReadProfileURLs(file)
		if err != nil {
			return nil, err
		}
		urls = read
	}

	src := batch.NewURLSource(urls)
	if len(src.URLs) == 0 {
		return nil, eris.New("process: no profile URLs provided")
	}
	if bad := batch.InvalidURLs(src.URLs, maxInvalidURLsReported); len(bad) > 0 {
		return nil, eris.Errorf("process: invalid LinkedIn profile URLs: %v", bad)
	}
	return src, nil
}

// loadCriteria reads a YAML criteria file. An empty path selects the ICP rubric.
func loadCriteria(path string) (*model.EvaluationCriteria, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "process: read criteria %s", path)
	}
	var c model.EvaluationCriteria
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrapf(err, "process: parse criteria %s", path)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
