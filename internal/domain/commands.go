package domain

const (
	PING     = "PING"
	ECHO     = "ECHO"
	GET      = "GET"
	SET      = "SET"
	MULTI    = "MULTI"
	EXEC     = "EXEC"
	DISCARD  = "DISCARD"
	REPLCONF = "REPLCONF"
	PSYNC    = "PSYNC"
	XADD     = "XADD"
	XRANGE   = "XRANGE"
	XREAD    = "XREAD"
	CLIENT   = "CLIENT"
	CONFIG   = "CONFIG"
	INFO     = "INFO"
)
