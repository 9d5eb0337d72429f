/*
Package token implements fungible assets and the accounts holding them.

An asset is registered at genesis under a 32 byte id derived from its ticker.
Every (owner, asset) pair has at most one account, stored under the address
returned by AccountAddress. Funds move only between accounts of the same
asset, and only with an Authority that authorizes the owner of the debited
account: either the signers of the current transaction or a custody
authority.
*/
package token
