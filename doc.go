/*
Package frontend implements the state layer of the Lodestone launcher front end.

The project has three main source packages:
`cmd`: Main applications, tools and libraries.
`internal`: Private application and library code.
`pkg`: Library code that's ok to use by external applications

The front end never installs packages, launches games or touches files
itself; all of that lives in the native backend, reached through the
command invoker in `internal/backend` and observed through the push
events delivered on the bus in `pkg/eventbus`.
*/
package frontend
