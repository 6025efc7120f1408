/*
Package rtlsim is a cycle-level digital-circuit simulation kernel.

A hardware model is elaborated on a Design as typed signals, slice-level
connections, combinational blocks with explicit sensitivity sets, and
edge-triggered registers. Compile turns the declarations into an
immutable Model: a dependency graph over elementary bit ranges with a
bit-range-exact fan-out index and a static topological evaluation
order; purely combinational cycles and conflicting drivers are rejected
here. Each instance of a model owns its storage, so a compiled model
can drive any number of concurrent simulations.

A simulation step applies inputs, settles combinational logic in a
single pass over the static order, and commits register shadows at the
clock edge. The Simulator drives steps from test vectors and hands the
settled state of every step to trace hooks.
*/
package rtlsim
