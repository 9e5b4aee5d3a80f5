package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/galsim/internal/actions"
	"github.com/san-kum/galsim/internal/config"
	"github.com/san-kum/galsim/internal/df"
	"github.com/san-kum/galsim/internal/export"
	"github.com/san-kum/galsim/internal/galaxy"
	"github.com/san-kum/galsim/internal/geom"
	"github.com/san-kum/galsim/internal/potential"
	"github.com/san-kum/galsim/internal/profile"
	"github.com/san-kum/galsim/internal/scm"
	"github.com/san-kum/galsim/internal/snapshot"
	"github.com/san-kum/galsim/internal/tui"
)

var (
	outDir          string
	iterations      int
	bootstrap       int
	format          string
	live            bool
	samples         bool
	exportPotential bool
	seed            int64
	writePath       string
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	stageStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "galsim",
		Short: "self-consistent multi-component galaxy equilibrium models",
	}
	rootCmd.PersistentFlags().StringVar(&outDir, "out", ".", "output directory")

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "build a self-consistent model and export its products",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runModel,
	}
	runCmd.Flags().IntVar(&iterations, "iterations", 0, "DF-stage iterations (0 uses the config value)")
	runCmd.Flags().IntVar(&bootstrap, "bootstrap", 0, "bootstrap iterations (0 uses the config value)")
	runCmd.Flags().StringVar(&format, "format", "text", "snapshot format: text or csv")
	runCmd.Flags().BoolVar(&live, "live", false, "show a live progress view while iterating")
	runCmd.Flags().BoolVar(&samples, "samples", false, "draw N-body samples of the final model")
	runCmd.Flags().BoolVar(&exportPotential, "export-potential", true, "write the final potential expansion")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "random seed for sampling")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print or write the default model configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if writePath != "" {
				return config.Save(writePath, cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	configCmd.Flags().StringVar(&writePath, "write", "", "write the default configuration to a file")

	rootCmd.AddCommand(runCmd, configCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if len(args) == 1 {
		var err error
		if cfg, err = config.Load(args[0]); err != nil {
			return err
		}
	}
	if iterations > 0 {
		cfg.Iterations = iterations
	}
	if bootstrap > 0 {
		cfg.BootstrapIterations = bootstrap
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	model := scm.New(scm.Options{
		Lmax:     cfg.Solver.Lmax,
		LmaxDisk: cfg.Solver.LmaxDisk,
		NR:       cfg.Solver.GridSize,
		RMin:     cfg.Solver.RMin,
		RMax:     cfg.Solver.RMax,
		NTheta:   cfg.Solver.NTheta,
		Quad:     galaxy.Options{TolRel: cfg.Solver.TolRel},
	})

	// Stage one: all components are static density profiles; iterating
	// computes the initial composite potential.
	statics := make([]profile.Field, len(cfg.Components))
	for i, cc := range cfg.Components {
		field, err := profile.New(cc.Potential)
		if err != nil {
			return fmt.Errorf("component %q: %w", cc.Name, err)
		}
		statics[i] = field
		comp := scm.NewStatic(cc.Name, field, cc.Disklike)
		comp.RefPoints = cc.ReferencePoints
		model.AddComponent(comp)
	}

	fmt.Println(bannerStyle.Render("**** COMPUTING INITIAL POTENTIAL ****"))
	for i := 0; i < cfg.BootstrapIterations; i++ {
		rep, err := model.Iterate()
		if err != nil {
			return err
		}
		printReport(rep)
	}
	if err := writeRotationCurve(filepath.Join(outDir, "rotcurve_init"), model.Potential()); err != nil {
		return err
	}

	// Stage two: replace each component with its DF-based counterpart.
	// The disk DF is built in the full initial potential; the spheroids get
	// pseudo-isotropic DFs from Eddington inversion of their target density
	// in the spherically-averaged potential.
	af := actions.NewFinder(model.Potential(), actions.FinderOpts{
		RMin: cfg.Solver.RMin, RMax: cfg.Solver.RMax,
	})
	var sph *potential.Spherical
	dfs := make([]df.DistributionFunction, len(cfg.Components))
	for i, cc := range cfg.Components {
		switch cc.DF.Type {
		case "":
			continue
		case "quasiisothermal":
			d, err := df.NewQuasiIsothermal(cc.DF.QuasiIsothermal, af)
			if err != nil {
				return fmt.Errorf("component %q: %w", cc.Name, err)
			}
			dfs[i] = d
		case "pseudoisotropic":
			if sph == nil {
				sph = potential.NewSpherical(model.Potential(), potential.SphericalOpts{
					RMin: cfg.Solver.RMin, RMax: cfg.Solver.RMax,
				})
			}
			d, err := df.NewIsotropic(statics[i], sph, af, df.IsotropicOpts{
				RMin: cfg.Solver.RMin, RMax: cfg.Solver.RMax,
			})
			if err != nil {
				return fmt.Errorf("component %q: %w", cc.Name, err)
			}
			dfs[i] = d
		}
		comp, err := scm.NewDFBased(cfg.Components[i].Name, dfs[i], cc.Disklike, cc.Grid)
		if err != nil {
			return err
		}
		comp.RefPoints = cc.ReferencePoints
		model.Replace(i, comp)
	}

	fmt.Println(bannerStyle.Render("**** STARTING ITERATIVE MODELLING ****"))
	fmt.Print("Masses (computed from DF):")
	for i, d := range dfs {
		if d != nil {
			fmt.Printf(" M%s=%.6g", cfg.Components[i].Name, d.TotalMass())
		}
	}
	fmt.Println()

	if live {
		if err := runLive(model, cfg.Iterations); err != nil {
			return err
		}
	} else {
		for i := 0; i < cfg.Iterations; i++ {
			fmt.Println(stageStyle.Render(fmt.Sprintf("Starting iteration #%d", i+1)))
			rep, err := model.Iterate()
			if err != nil {
				return err
			}
			printReport(rep)
		}
	}

	return finalize(cfg, model, af, dfs)
}

func runLive(model *scm.Model, n int) error {
	p := tui.NewProgram(n)
	errc := make(chan error, 1)
	go func() {
		for i := 0; i < n; i++ {
			rep, err := model.Iterate()
			if rep != nil {
				p.Send(tui.ReportMsg{Report: rep})
			}
			if err != nil {
				p.Send(tui.DoneMsg{Err: err})
				errc <- err
				return
			}
		}
		p.Send(tui.DoneMsg{})
		errc <- nil
	}()
	if _, err := p.Run(); err != nil {
		return err
	}
	return <-errc
}

func printReport(rep *scm.Report) {
	for _, cr := range rep.Components {
		fmt.Printf("%-8s total mass=%-12.6g", cr.Name, cr.Mass)
		for _, rd := range cr.RefDensities {
			fmt.Printf(" rho(R=%g,z=%g)=%.4g", rd.R, rd.Z, rd.Rho)
		}
		fmt.Println()
	}
	fmt.Printf("Potential at origin=%.6g, total mass=%.6g\n", rep.Phi0, rep.TotalMass)
	for _, w := range rep.Warnings {
		fmt.Println(warnStyle.Render("warning: " + w.String()))
	}
}

// finalize writes the run products: rotation curve, disk-plane profiles,
// exported potential, and optional particle samples.
func finalize(cfg *config.Config, model *scm.Model, af *actions.Finder, dfs []df.DistributionFunction) error {
	pot := model.Potential()

	radii := geom.LogSpaced(71, 1e-2, 10*cfg.Solver.RMax/1e2)
	if err := writeRotationCurve(filepath.Join(outDir, "rotcurve_final"), pot); err != nil {
		return err
	}
	vcs := make([]float64, len(radii))
	for i, r := range radii {
		vcs[i] = potential.Vcirc(pot, r)
	}
	fmt.Println(stageStyle.Render("Rotation curve:"))
	fmt.Println(asciigraph.Plot(vcs, asciigraph.Height(10), asciigraph.Caption("v_circ vs log radius")))
	if err := export.WriteCurves(filepath.Join(outDir, "rotcurve_final.svg"),
		[]export.Curve{{Label: "v_circ", Xs: radii, Ys: vcs}}, 640, 400); err != nil {
		return err
	}

	if exportPotential {
		if mp, ok := pot.(*potential.Multipole); ok {
			if err := mp.Export(filepath.Join(outDir, "potential_final.yaml")); err != nil {
				return err
			}
		}
	}

	// Disk-plane kinematic profiles for every disk-like DF component.
	af = actions.NewFinder(pot, actions.FinderOpts{RMin: cfg.Solver.RMin, RMax: cfg.Solver.RMax})
	for i, cc := range cfg.Components {
		if dfs[i] == nil || !cc.Disklike {
			continue
		}
		if err := writeDiskProfiles(cfg, cc, pot, dfs[i], af); err != nil {
			return err
		}
	}

	if !samples {
		return nil
	}
	fmt.Println(bannerStyle.Render("**** CREATING N-BODY REPRESENTATION ****"))
	rng := rand.New(rand.NewSource(seed))
	for i, cc := range cfg.Components {
		n := cc.Particles
		if n <= 0 {
			continue
		}
		comp := model.Component(i)
		dens := comp.Density()

		// Positions only, drawn from the component's final density field.
		fmt.Printf("Sampling %s density\n", cc.Name)
		pos := profile.SamplePositions(dens, cc.Grid.RMin, cc.Grid.RMax, n, rng)
		parts := make([]snapshot.Particle, n)
		mass := dens.TotalMass() / float64(n)
		for j, x := range pos {
			parts[j] = snapshot.Particle{X: x[0], Y: x[1], Z: x[2], Mass: mass}
		}
		name := filepath.Join(outDir, "dens_"+cc.Name+"_final")
		if err := snapshot.Write(name, format, parts); err != nil {
			return err
		}

		// Full phase-space samples from the DF in the final potential.
		if dfs[i] != nil {
			fmt.Printf("Sampling %s DF\n", cc.Name)
			gm := galaxy.New(pot, dfs[i], af, galaxy.Options{TolRel: cfg.Solver.TolRel})
			parts = gm.Sample(n, cc.Grid.RMin, cc.Grid.RMax, rng)
			name = filepath.Join(outDir, "model_"+cc.Name+"_final")
			if err := snapshot.Write(name, format, parts); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDiskProfiles(cfg *config.Config, cc config.ComponentConfig, pot potential.Potential, d df.DistributionFunction, af *actions.Finder) error {
	gm := galaxy.New(pot, d, af, galaxy.Options{
		TolRel: cfg.Solver.TolRel,
		ZMax:   cc.Grid.ZMax,
	})
	rd := cc.Potential.ScaleRadius
	radii := geom.LogSpaced(24, 0.05*rd, 8*rd)

	f, err := os.Create(filepath.Join(outDir, cc.Name+"_plane"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := tabwriter.NewWriter(f, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "# R\tSigma\trho\tsigma_R\tsigma_z\tsigma_phi\tv_phi\tv_circ\tToomreQ")
	for _, r := range radii {
		mom, _ := gm.Moments(r, 0)
		sigma, _, _ := gm.ProjectedMoments(r)
		kappa2, _, _ := potential.Epicycle(pot, r)
		q := 0.0
		if sigma > 0 && kappa2 > 0 {
			q = math.Sqrt(mom.SigmaR2) * math.Sqrt(kappa2) / 3.36 / sigma
		}
		fmt.Fprintf(w, "%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n",
			r, sigma, mom.Rho, math.Sqrt(mom.SigmaR2), math.Sqrt(mom.SigmaZ2),
			math.Sqrt(mom.SigmaPhi2), mom.MeanVphi, potential.Vcirc(pot, r), q)
	}
	return w.Flush()
}

func writeRotationCurve(path string, pot potential.Potential) error {
	radii := geom.LogSpaced(71, 1e-2, 31.6)
	return snapshot.WriteRotationCurve(path, radii, pot)
}
