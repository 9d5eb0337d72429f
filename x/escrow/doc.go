/*
Package escrow implements a two party exchange of fungible assets.

A maker locks a deposit of one asset and names the amount of another asset
it wants in exchange. The deposit is held by a custody address derived from
the maker and a maker chosen nonce. Nobody holds a key for that address, so
the deposit can leave it only through this package:

	make    creates the escrow and moves the deposit into custody
	take    pays the maker and releases the deposit to the taker
	refund  returns the deposit to the maker

Each escrow is identified by its maker and nonce. Take and refund destroy
the escrow in the same unit of work that empties the custody account, so
only one of them can ever succeed.
*/
package escrow
