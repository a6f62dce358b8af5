package commands

type Command interface {
	CommandType() string
	Validate() error
}
