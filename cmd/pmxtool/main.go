// pmxtool is a CLI utility for inspecting PMX model files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-pmx/internal/config"
	"github.com/Faultbox/midgard-pmx/internal/logger"
	"github.com/Faultbox/midgard-pmx/pkg/pmx"
)

// errFindings is returned by validate when the model has dangling references.
var errFindings = errors.New("model has validation findings")

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	var cmdErr error
	switch command {
	case "info":
		cmdErr = cmdInfo(cfg, args)
	case "bones":
		cmdErr = cmdBones(cfg, args)
	case "morphs":
		cmdErr = cmdMorphs(cfg, args)
	case "materials", "mats":
		cmdErr = cmdMaterials(cfg, args)
	case "frames":
		cmdErr = cmdFrames(cfg, args)
	case "physics":
		cmdErr = cmdPhysics(cfg, args)
	case "validate", "check":
		cmdErr = cmdValidate(cfg, args)
	case "dump":
		cmdErr = cmdDump(cfg, args)
	case "config":
		cmdErr = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if cmdErr != nil {
		if !errors.Is(cmdErr, errFindings) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pmxtool - PMX model inspection utility

Usage:
  pmxtool [global options] <command> [options] <file.pmx>

Commands:
  info <file.pmx>              Show header, names and section counts
  bones [-n N] <file.pmx>      List bones (optionally first N)
  morphs [-kind K] <file.pmx>  List morphs (optionally of one kind, e.g. Vertex)
  materials <file.pmx>         List materials with textures and triangle ranges
  frames <file.pmx>            List display frames
  physics <file.pmx>           List rigid bodies, joints and soft bodies
  validate <file.pmx>          Check cross references, exit 1 on findings
  dump <file.pmx>              Write a YAML summary of the whole model
  config [-o path]             Write the effective configuration as YAML

Global options:
  --config path   Config file (default ./pmxtool.yaml or the user config dir)
  --debug         Enable debug logging
  --strict        Fail to load models with dangling references
  --max-size MB   Reject larger files
  --timeout dur   Abort decoding after this long
  --format fmt    Listing format: text or yaml
  --log-file path Also write logs to a rotating file

Examples:
  pmxtool info miku.pmx
  pmxtool --format yaml bones -n 20 miku.pmx
  pmxtool morphs -kind Vertex miku.pmx
  pmxtool --strict validate miku.pmx`)
}

// loadModel reads and decodes one model with the configured limits.
func loadModel(cfg *config.Config, path string) (*pmx.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	start := time.Now()
	doc, err := pmx.ParseContext(ctx, data, cfg.ParseOptions(logger.Named("pmx")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))
	return doc, nil
}

// fileArg parses a command's flags and loads the single model argument.
func fileArg(cfg *config.Config, fs *flag.FlagSet, args []string) (*pmx.Document, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("usage: pmxtool %s [options] <file.pmx>", fs.Name())
	}
	return loadModel(cfg, fs.Arg(0))
}

// emit writes rows as YAML or as text lines, honoring the row limit.
func emit[T any](cfg *config.Config, rows []T, limit int, text func(T)) error {
	if limit <= 0 {
		limit = cfg.Output.MaxRows
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if cfg.Output.Format == config.FormatYAML {
		return writeYAML(os.Stdout, rows)
	}
	for _, r := range rows {
		text(r)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func cmdInfo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	doc, err := fileArg(cfg, fs, args)
	if err != nil {
		return err
	}

	s := summarize(doc)
	if cfg.Output.Format == config.FormatYAML {
		return writeYAML(os.Stdout, s)
	}

	fmt.Printf("Model:    %s", s.Name)
	if s.NameEN != "" {
		fmt.Printf(" (%s)", s.NameEN)
	}
	fmt.Println()
	fmt.Printf("Version:  %s\n", s.Version)
	fmt.Printf("Encoding: %s\n", s.Encoding)
	fmt.Printf("Extra UV: %d\n", s.AdditionalVectors)
	fmt.Printf("Indices:  vertex %d, texture %d, material %d, bone %d, morph %d, rigid body %d\n",
		s.IndexSizes["Vertex"], s.IndexSizes["Texture"], s.IndexSizes["Material"],
		s.IndexSizes["Bone"], s.IndexSizes["Morph"], s.IndexSizes["RigidBody"])
	fmt.Println()

	c := s.Counts
	fmt.Println("Sections:")
	fmt.Printf("  %-15s %d\n", "vertices", c.Vertices)
	fmt.Printf("  %-15s %d\n", "triangles", c.Triangles)
	fmt.Printf("  %-15s %d\n", "textures", c.Textures)
	fmt.Printf("  %-15s %d\n", "materials", c.Materials)
	fmt.Printf("  %-15s %d\n", "bones", c.Bones)
	fmt.Printf("  %-15s %d\n", "morphs", c.Morphs)
	fmt.Printf("  %-15s %d\n", "display frames", c.DisplayFrames)
	fmt.Printf("  %-15s %d\n", "rigid bodies", c.RigidBodies)
	fmt.Printf("  %-15s %d\n", "joints", c.Joints)
	if doc.Header.HasSoftBodies() {
		fmt.Printf("  %-15s %d\n", "soft bodies", c.SoftBodies)
	}

	if s.Comment != "" {
		fmt.Println()
		fmt.Println(s.Comment)
	}
	return nil
}

func cmdBones(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bones", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N bones (0 = all)")
	doc, err := fileArg(cfg, fs, args)
	if err != nil {
		return err
	}

	return emit(cfg, boneRows(doc), *limit, func(r boneRow) {
		fmt.Printf("%5d  %-20s parent %5d  %s", r.Index, r.Name, r.Parent, r.Flags)
		if r.IKLinks > 0 {
			fmt.Printf("  IK links %d", r.IKLinks)
		}
		fmt.Println()
	})
}

func cmdMorphs(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("morphs", flag.ExitOnError)
	kind := fs.String("kind", "", "Only list morphs of this kind (Group, Vertex, Bone, UV, Material, ...)")
	doc, err := fileArg(cfg, fs, args)
	if err != nil {
		return err
	}

	return emit(cfg, morphRows(doc, *kind), 0, func(r morphRow) {
		fmt.Printf("%5d  %-20s %-8s %-14s %d offsets\n", r.Index, r.Name, r.Panel, r.Kind, r.Offsets)
	})
}

func cmdMaterials(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("materials", flag.ExitOnError)
	doc, err := fileArg(cfg, fs, args)
	if err != nil {
		return err
	}

	return emit(cfg, materialRows(doc), 0, func(r materialRow) {
		fmt.Printf("%4d  %-20s triangles %6d-%-6d %s\n", r.Index, r.Name, r.First, r.First+r.Triangles, r.Texture)
	})
}

func cmdFrames(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	doc, err := fileArg(cfg, fs, args)
	if err != nil {
		return err
	}

	return emit(cfg, frameRows(doc), 0, func(r frameRow) {
		special := ""
		if r.Special {
			special = " (special)"
		}
		fmt.Printf("%4d  %-20s bones %4d  morphs %4d%s\n", r.Index, r.Name, r.Bones, r.Morphs, special)
	})
}

func cmdPhysics(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("physics", flag.ExitOnError)
	doc, err := fileArg(cfg, fs, args)
	if err != nil {
		return err
	}

	if cfg.Output.Format == config.FormatYAML {
		return writeYAML(os.Stdout, struct {
			RigidBodies []rigidBodyRow `yaml:"rigid_bodies"`
			Joints      []jointRow     `yaml:"joints"`
			SoftBodies  []softBodyRow  `yaml:"soft_bodies,omitempty"`
		}{rigidBodyRows(doc), jointRows(doc), softBodyRows(doc)})
	}

	fmt.Printf("Rigid bodies (%d):\n", len(doc.RigidBodies))
	for _, r := range rigidBodyRows(doc) {
		fmt.Printf("%5d  %-20s %-8s %-10s mass %-8.3f bone %s\n", r.Index, r.Name, r.Shape, r.Mode, r.Mass, r.Bone)
	}
	fmt.Printf("\nJoints (%d):\n", len(doc.Joints))
	for _, r := range jointRows(doc) {
		fmt.Printf("%5d  %-20s %-10s %s <-> %s\n", r.Index, r.Name, r.Kind, r.A, r.B)
	}
	if doc.Header.HasSoftBodies() {
		fmt.Printf("\nSoft bodies (%d):\n", len(doc.SoftBodies))
		for _, r := range softBodyRows(doc) {
			fmt.Printf("%5d  %-20s %-8s material %s  anchors %d  pins %d\n", r.Index, r.Name, r.Shape, r.Material, r.Anchors, r.Pins)
		}
	}
	return nil
}

func cmdValidate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: pmxtool validate <file.pmx>...")
	}

	// Validation runs here, so a strict load would only hide the findings.
	lenient := *cfg
	lenient.Parse.Strict = false

	failed := false
	for _, path := range fs.Args() {
		doc, err := loadModel(&lenient, path)
		if err != nil {
			fmt.Printf("%s: FAIL\n  %v\n", path, err)
			failed = true
			continue
		}

		findings := multierr.Errors(doc.Validate())
		if len(findings) == 0 {
			fmt.Printf("%s: OK\n", path)
			continue
		}
		failed = true
		fmt.Printf("%s: %d findings\n", path, len(findings))
		for _, f := range findings {
			fmt.Printf("  %v\n", f)
		}
	}

	if failed {
		return errFindings
	}
	return nil
}

func cmdDump(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	doc, err := fileArg(cfg, fs, args)
	if err != nil {
		return err
	}
	return writeYAML(os.Stdout, dump(doc))
}

func cmdConfig(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	out := fs.String("o", "", "Write to this path instead of stdout ('user' for the user config dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch *out {
	case "":
		return cfg.Write(os.Stdout)
	case "user":
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved to %s\n", config.ConfigDir())
		return nil
	default:
		return cfg.SaveTo(*out)
	}
}
