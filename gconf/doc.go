/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Configuration of every extension is read from the "conf" section of the
genesis file, validated and written into the database under a key derived
from the extension name. There is no handler to update a configuration, so
once the chain is initialized the configuration is immutable.
*/
package gconf
