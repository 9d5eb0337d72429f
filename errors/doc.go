/*
Package errors implements the error registry shared by all vault packages.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. x/escrow and x/token
register a few custom errors, x/sigs one more.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New, Errxxx.Newf or Wrap(Errxxx, "...").
Code stands for ABCI error code, which allows to distinguish types of errors
on the client side and act accordingly. Use ABCIError on the client side to
map a code back to the registered root error.

There is also support for stacktraces. Please ensure you create the custom
error using Wrap at the point of creation to ensure we attach a stacktrace.
If you wrap multiple times, we only record the first wrap with the stacktrace.
(And don't do this as a global `var ErrFoo = ErrInput.New("foo")` or you will
get a useless stacktrace).

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
