// Package fluid couples a 1-D height-field water surface with rigid spheres.
//
// The package is built from three pieces:
//
//   - [Surface]: discretized wave heights and velocities across the pool
//   - [Body]: a sphere with position, velocity, mass and fixed volume
//   - [Pool]: the per-tick coordinator that balances displaced volume,
//     resolves buoyancy/drag/impact forces and propagates waves
//
// # Units
//
// The surface is stored in surface units (pixels by default) with y growing
// downward, bodies are stored in metres. [Params.Scale] converts between
// them. Every force formula works in metres.
//
// # Example
//
//	pool, _ := fluid.NewPool(fluid.DefaultGeometry(), fluid.DefaultParams())
//	pool.Spawn(4.0, 1.5, 0.4, 1.2)
//	for i := 0; i < 500; i++ {
//	    pool.Tick(0.01)
//	}
//
// # Thread Safety
//
// A Pool is NOT thread-safe. Drive each Pool from a single goroutine.
package fluid
