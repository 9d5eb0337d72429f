/*
Package custody derives addresses that can hold funds on behalf of a program.

A custody address is sha256(seeds | bump | program | "ProgramDerivedAddress")
with the bump chosen so that the result is not a valid ed25519 point. No
private key exists for such an address and it can never sign a transaction.
Moving funds out of it requires an Authority, which only a Deriver can create.
*/
package custody
