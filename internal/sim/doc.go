// Package sim advances a fluid scene in time.
//
// A [Scene] pairs a physics engine with a fluid system. The [Integrator]
// runs after every engine sub-step: it refreshes basin membership,
// transfers fluid between pool and boat, solves surface heights and then
// applies gravity, buoyancy and drag for the following sub-step. Recorded
// forces are interpolated by the leftover ratio each [Scene.Frame]
// publishes, so a renderer sees smooth values between sub-steps.
//
// [Simulator] drives a scene at a fixed frame rate and collects samples.
package sim
