package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ProjectSpec holds all fields collected during the interactive wizard.
type ProjectSpec struct {
	DatasetPath string
	BatchSize   int
	Seed        int64
	ServerPort  int
	CacheDir    string
}

const configTemplate = `# hypercorn project configuration
dataset:
  path: {{ .DatasetPath }}
sample:
  batch_size: {{ .BatchSize }}
  seed: {{ .Seed }}
cache:
  dir: {{ .CacheDir }}
server:
  port: {{ .ServerPort }}
`

// RunInitWizard runs an interactive huh form to collect project settings.
// If initialPath is non-empty, it pre-populates the dataset path field.
func RunInitWizard(in io.Reader, out io.Writer, initialPath string) (*ProjectSpec, error) {
	var (
		datasetPath = initialPath
		batchSize   = "10"
		seed        = "-1"
		port        = "8080"
		cacheDir    = ".hypercorn-cache"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dataset path").
				Description("Path or azblob:// URL of the submissions dataset").
				Placeholder("submissions.parquet").
				Value(&datasetPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("dataset path is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Default batch size").
				Description("Number of submissions drawn per sample").
				Placeholder("10").
				Value(&batchSize).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Sampling seed").
				Description("Seed for reproducible sampling, or -1 for random").
				Placeholder("-1").
				Value(&seed).
				Validate(func(s string) error {
					if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
						return fmt.Errorf("seed must be an integer")
					}
					return nil
				}),
			huh.NewInput().
				Title("Server port").
				Description("Port for the dataset HTTP server").
				Placeholder("8080").
				Value(&port).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Cache directory").
				Description("Directory for cached summaries and downloads").
				Placeholder(".hypercorn-cache").
				Value(&cacheDir),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	batchSizeN, err := strconv.Atoi(strings.TrimSpace(batchSize))
	if err != nil {
		return nil, fmt.Errorf("invalid batch size: %w", err)
	}
	seedN, err := strconv.ParseInt(strings.TrimSpace(seed), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	portN, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	return &ProjectSpec{
		DatasetPath: strings.TrimSpace(datasetPath),
		BatchSize:   batchSizeN,
		Seed:        seedN,
		ServerPort:  portN,
		CacheDir:    strings.TrimSpace(cacheDir),
	}, nil
}

// GenerateConfigYAML renders a .hypercorn.yaml from the given spec.
func GenerateConfigYAML(spec *ProjectSpec) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}
