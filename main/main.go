package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/sphlab/gosph/geom"
	"github.com/sphlab/gosph/io"
	"github.com/sphlab/gosph/par"
	"github.com/sphlab/gosph/prof"
	"github.com/sphlab/gosph/sph"
)

var outEndianness = binary.LittleEndian

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		run, view, serve  string
		exampleConfig     string
		steps, threads    int
		out, addr         string
		logFile, profFile string
	)
	vars := map[string]*string{
		"Run":           &run,
		"View":          &view,
		"Serve":         &serve,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&run, "Run", "",
		"Scene file for [Run] mode: step the simulation without a display.",
	)
	flag.StringVar(
		&view, "View", "",
		"Scene file for [View] mode: step the simulation in an "+
			"interactive window.",
	)
	flag.StringVar(
		&serve, "Serve", "",
		"Scene file for [Serve] mode: step the simulation and broadcast "+
			"frames to websocket clients.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Scene'.",
	)

	flag.IntVar(
		&steps, "Steps", 1000, "Number of time steps taken in [Run] mode.",
	)
	flag.IntVar(
		&threads, "Threads", 0,
		"Number of threads used by the solver. Non-positive values use "+
			"every core.",
	)
	flag.StringVar(
		&out, "Out", "",
		"File the final particle positions are written to in [Run] mode.",
	)
	flag.StringVar(
		&addr, "Addr", "localhost:8777", "Address [Serve] mode listens on.",
	)
	flag.StringVar(
		&logFile, "LogFile", "", "File log statements are written to.",
	)
	flag.StringVar(
		&profFile, "ProfileFile", "",
		"File a CPU profile and per-phase timings are written to.",
	)

	flag.Parse()

	if threads > 0 {
		par.NumCores = threads
	}

	fg := &FileGroup{}
	defer fg.Close()
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(f)
		fg.log = f
	}
	if profFile != "" {
		f, err := os.Create(profFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			log.Fatal(err.Error())
		}
		prof.Enabled = true
		fg.prof = f
	}

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Run":
		runMain(readScene(run), steps, out)
	case "View":
		viewMain(readScene(view))
	case "Serve":
		serveMain(readScene(serve), addr)
	case "ExampleConfig":
		switch exampleConfig {
		case "Scene":
			fmt.Println(io.ExampleSceneFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only " +
					"recognized argument is 'Scene'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gosph only accepts "+
				"one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func readScene(fname string) *io.SceneConfig {
	con, err := io.ReadSceneConfig(fname)
	if err != nil {
		log.Fatal(err.Error())
	}
	return con
}

func newSolver(con *io.SceneConfig) *sph.Solver {
	solver, err := sph.NewSolver(con, nil)
	if err != nil {
		log.Fatal(err.Error())
	}
	p := solver.Params()
	log.Printf(
		"Seeded %d particles (mass %g, h %g, max dt %g).",
		solver.Count(), p.ParticleMass, p.H, solver.MaxTimestep(),
	)
	return solver
}

// gravityDriver rotates the gravity vector in the xy plane with the
// configured period, which keeps a demonstration scene sloshing instead of
// settling. A non-positive period leaves gravity fixed.
type gravityDriver struct {
	period    float64
	magnitude float32
	base      geom.Vec
}

func newGravityDriver(con *io.SceneConfig) *gravityDriver {
	g := con.Gravity()
	return &gravityDriver{
		period:    con.Scene.RotateGravityPeriod,
		magnitude: g.Norm(),
		base:      g,
	}
}

func (d *gravityDriver) Gravity(t float32) geom.Vec {
	if d.period <= 0 {
		return d.base
	}
	angle := 2 * math.Pi * float64(t) / d.period
	sin, cos := math.Sin(angle), math.Cos(angle)
	return geom.Vec{
		d.magnitude * float32(sin),
		-d.magnitude * float32(cos),
		0,
	}
}

func runMain(con *io.SceneConfig, steps int, out string) {
	solver := newSolver(con)
	driver := newGravityDriver(con)
	dt := solver.MaxTimestep()

	logEvery := steps / 10
	if logEvery == 0 {
		logEvery = 1
	}

	for step := 1; step <= steps; step++ {
		solver.Settings().Gravity = driver.Gravity(solver.Time())
		solver.Update(dt)

		if step%logEvery == 0 {
			log.Printf(
				"Step %d/%d (t = %.4f s).", step, steps, solver.Time(),
			)
			if err := solver.CheckFinite(); err != nil {
				log.Fatal(err.Error())
			}
		}
	}

	if prof.Enabled {
		prof.Dump()
	}
	if out != "" {
		err := writePositions(out, solver)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.Printf("Wrote %d positions to %s.", solver.Count(), out)
	}
}

// writePositions writes the particle count as an int32 followed by the
// packed xyz float32 coordinates of every particle, little endian.
func writePositions(fname string, solver *sph.Solver) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	m := solver.Positions()
	err = binary.Write(f, outEndianness, int32(m.Width))
	if err != nil {
		return err
	}
	return binary.Write(f, outEndianness, m.Vals)
}
