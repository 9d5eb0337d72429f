/*
Package x contains the standard extensions of the escrow application.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together by the app package to construct
the application.

Note that protobuf types in exported code will be prefixed by
the package, so follow standard go naming conventions and avoid
stutter. Use eg. `escrow.MakeMsg` in place of `escrow.MakeEscrowMsg`.
*/
package x
