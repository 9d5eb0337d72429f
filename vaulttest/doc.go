/*
Package vaulttest provides mocks and helpers used by tests of the other
packages: authenticators, transactions, messages, handlers and decorators.
*/
package vaulttest
