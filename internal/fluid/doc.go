// Package fluid keeps the fluid volume of a pool and an optional boat
// consistent with the bodies floating in them.
//
// Every sub-step [System.Update] runs an explicit ordered pass:
//
//  1. refresh each body's cached immersion bounds from the engine
//  2. decide which bodies each [Basin] sees
//  3. move fluid between the pool and the boat (drain, fill, overflow)
//  4. clamp the pool to its capacity, discarding any spill
//  5. solve both surface heights
//  6. assign every body to the most specific basin holding it
//
// Containment is stored as a [dynamo.Containment] value, never as a basin
// pointer, so removing a boat cannot leave a dangling reference.
package fluid
