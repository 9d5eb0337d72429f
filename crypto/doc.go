/*
Package crypto provides the ed25519 keys used to sign transactions.

Keys can be generated at random or derived from a bip39 recovery phrase
using the hardened SLIP-10 path m/44'/234'/<index>'.
*/
package crypto
