// Command settoken manages the media library API token.
//
// The server reads a bcrypt hash from DATA_DIR/token.hash at startup;
// when the file exists, every /api route requires the matching token as
// an Authorization: Bearer header. settoken writes, removes, and
// inspects that file:
//
//	settoken set     # prompt for a token and store its hash
//	settoken clear   # remove the token (disables authentication)
//	settoken status  # report whether a token is configured
//
// The server must be restarted after changing the token.
package main
