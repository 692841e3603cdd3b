// Package dockerclean enumerates and removes unused container-engine
// resources by shelling out to the docker CLI. It never walks the
// filesystem; every item carries an opaque "class/id" identifier.
package dockerclean

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/logging"
)

// Resource classes encoded in item identifiers.
const (
	classImage     = "image"
	classContainer = "container"
	classVolume    = "volume"
)

// Runner executes one docker CLI call. Tests inject transcripts.
type Runner interface {
	Output(args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(args ...string) ([]byte, error) {
	out, err := exec.Command("docker", args...).Output()
	if err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) && len(exit.Stderr) > 0 {
			return nil, fmt.Errorf("docker %s: %s", strings.Join(args, " "),
				strings.TrimSpace(string(exit.Stderr)))
		}
		return nil, fmt.Errorf("docker %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// Cleaner queries the engine for unused images, exited containers and,
// optionally, dangling volumes.
type Cleaner struct {
	run       Runner
	allImages bool
	volumes   bool
}

// New builds a docker cleaner using the real CLI.
func New(allImages, volumes bool) *Cleaner {
	return &Cleaner{run: execRunner{}, allImages: allImages, volumes: volumes}
}

// NewWithRunner builds a docker cleaner over an injected runner.
func NewWithRunner(run Runner, allImages, volumes bool) *Cleaner {
	return &Cleaner{run: run, allImages: allImages, volumes: volumes}
}

// Name implements cleaner.Cleaner.
func (c *Cleaner) Name() string { return "Docker" }

// Icon implements cleaner.Cleaner.
func (c *Cleaner) Icon() string { return "🐳" }

// Scan lists removable resources. An unreachable daemon is fatal; a
// resource whose size the engine does not report is kept with an unknown
// size rather than a silent zero.
func (c *Cleaner) Scan() (*cleaner.ScanResult, error) {
	log := logging.New("docker")

	if _, err := c.run.Output("info", "--format", "{{.ServerVersion}}"); err != nil {
		return nil, fmt.Errorf("container engine unreachable: %w", err)
	}

	res := &cleaner.ScanResult{}

	if err := c.scanImages(res); err != nil {
		return nil, err
	}
	if err := c.scanContainers(res); err != nil {
		return nil, err
	}
	if c.volumes {
		if err := c.scanVolumes(res); err != nil {
			return nil, err
		}
	}

	log.Debug().Int("resources", len(res.Items)).Msg("engine scan finished")
	return res, nil
}

func (c *Cleaner) scanImages(res *cleaner.ScanResult) error {
	args := []string{"images", "--format", "{{.ID}}\t{{.Repository}}:{{.Tag}}\t{{.Size}}"}

	// The wide scan still only covers unused images: anything a running
	// container references is excluded up front.
	var inUse map[string]bool
	if c.allImages {
		used, err := c.inUseImages()
		if err != nil {
			return err
		}
		inUse = used
	} else {
		args = append(args, "--filter", "dangling=true")
	}

	out, err := c.run.Output(args...)
	if err != nil {
		return err
	}

	for _, line := range splitLines(out) {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			res.Warnings = append(res.Warnings, "unparsable image line: "+line)
			continue
		}
		id, tag, sizeStr := fields[0], fields[1], fields[2]
		if imageInUse(inUse, id, tag) {
			continue
		}
		name := tag
		if strings.HasPrefix(tag, "<none>") {
			name = "image " + id
		}
		item := cleaner.Item{
			Name: name,
			Path: classImage + "/" + id,
			Kind: c.Name(),
		}
		if size, ok := parseEngineSize(sizeStr); ok {
			item.Size = size
			item.SizeKnown = true
		}
		res.Items = append(res.Items, item)
	}
	return nil
}

// inUseImages collects the image references of running containers.
func (c *Cleaner) inUseImages() (map[string]bool, error) {
	out, err := c.run.Output("ps", "--format", "{{.Image}}")
	if err != nil {
		return nil, err
	}
	used := make(map[string]bool)
	for _, ref := range splitLines(out) {
		used[ref] = true
	}
	return used, nil
}

// imageInUse matches an image against running-container references,
// which may be an id or a tag with the ":latest" suffix elided.
func imageInUse(inUse map[string]bool, id, tag string) bool {
	if len(inUse) == 0 {
		return false
	}
	if inUse[id] || inUse[tag] {
		return true
	}
	return strings.HasSuffix(tag, ":latest") && inUse[strings.TrimSuffix(tag, ":latest")]
}

func (c *Cleaner) scanContainers(res *cleaner.ScanResult) error {
	out, err := c.run.Output("ps", "--all", "--filter", "status=exited",
		"--format", "{{.ID}}\t{{.Names}}\t{{.Size}}")
	if err != nil {
		return err
	}

	for _, line := range splitLines(out) {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			res.Warnings = append(res.Warnings, "unparsable container line: "+line)
			continue
		}
		id, name, sizeStr := fields[0], fields[1], fields[2]
		// "12.3MB (virtual 1.02GB)": the writable layer size leads.
		if i := strings.IndexByte(sizeStr, ' '); i > 0 {
			sizeStr = sizeStr[:i]
		}
		item := cleaner.Item{
			Name: name,
			Path: classContainer + "/" + id,
			Kind: c.Name(),
		}
		if size, ok := parseEngineSize(sizeStr); ok {
			item.Size = size
			item.SizeKnown = true
		}
		res.Items = append(res.Items, item)
	}
	return nil
}

// scanVolumes lists dangling volumes. The ls output carries no sizes, so
// volume items have an explicitly unknown size.
func (c *Cleaner) scanVolumes(res *cleaner.ScanResult) error {
	out, err := c.run.Output("volume", "ls", "--filter", "dangling=true",
		"--format", "{{.Name}}")
	if err != nil {
		return err
	}

	for _, name := range splitLines(out) {
		res.Items = append(res.Items, cleaner.Item{
			Name: "volume " + name,
			Path: classVolume + "/" + name,
			Kind: c.Name(),
		})
	}
	return nil
}

// Remove issues one removal call chosen by the identifier class. An
// in-use resource fails here and is recorded by the engine as a per-item
// failure, never aborting the run.
func (c *Cleaner) Remove(item cleaner.Item) error {
	class, id, ok := strings.Cut(item.Path, "/")
	if !ok {
		return fmt.Errorf("malformed resource identifier %q", item.Path)
	}

	var args []string
	switch class {
	case classImage:
		args = []string{"rmi", id}
	case classContainer:
		args = []string{"rm", id}
	case classVolume:
		args = []string{"volume", "rm", id}
	default:
		return fmt.Errorf("unknown resource class %q", class)
	}

	_, err := c.run.Output(args...)
	return err
}

func splitLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
