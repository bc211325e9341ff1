package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/sphlab/gosph/io"
)

const (
	viewWidth  = 1280
	viewHeight = 720

	// Simulation steps taken per rendered frame. The solver's stable time
	// step is far smaller than a display frame.
	viewSubsteps = 8
)

// viewMain steps the simulation and draws it in an interactive window. The
// camera orbits the domain with the mouse; space pauses.
func viewMain(con *io.SceneConfig) {
	solver := newSolver(con)
	driver := newGravityDriver(con)
	dt := solver.MaxTimestep()

	bounds := solver.Bounds()
	ext := bounds.Extents()
	center := rl.NewVector3(
		bounds.Min[0]+0.5*ext[0],
		bounds.Min[1]+0.5*ext[1],
		bounds.Min[2]+0.5*ext[2],
	)
	span := max(ext[0], max(ext[1], ext[2]))
	radius := 0.5 * solver.Params().RestSpacing

	rl.InitWindow(viewWidth, viewHeight, "gosph")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	camera := rl.Camera3D{
		Position:   rl.NewVector3(center.X+2*span, center.Y+span, center.Z+2*span),
		Target:     center,
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	paused := false
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}
		rl.UpdateCamera(&camera, rl.CameraOrbital)

		if !paused {
			for i := 0; i < viewSubsteps; i++ {
				solver.Settings().Gravity = driver.Gravity(solver.Time())
				solver.Update(dt)
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(18, 18, 24, 255))

		rl.BeginMode3D(camera)
		rl.DrawCubeWires(
			center, ext[0], ext[1], ext[2], rl.NewColor(90, 90, 110, 255),
		)
		m := solver.Positions()
		for i := 0; i < m.Width; i++ {
			col := m.Col(i)
			rl.DrawSphere(
				rl.NewVector3(col[0], col[1], col[2]), radius,
				rl.NewColor(64, 140, 230, 255),
			)
		}
		rl.EndMode3D()

		rl.DrawText(
			fmt.Sprintf(
				"t = %.3f s   %d particles", solver.Time(), solver.Count(),
			),
			10, 10, 20, rl.RayWhite,
		)
		if paused {
			rl.DrawText("paused", 10, 34, 20, rl.Gray)
		}
		rl.EndDrawing()
	}
}
