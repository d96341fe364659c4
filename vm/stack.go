package vm

import "github.com/dr8co/tinylang/errs"

// Stack is the VM's operand stack. Every TinyLang value is a 32-bit
// int: booleans are represented as 0 (false) and 1 (true).
type Stack []int32

func (s *Stack) isEmpty() bool {
	return len(*s) == 0
}

func (s *Stack) push(value int32) {
	*s = append(*s, value)
}

// pop removes and returns the top element. An empty-stack pop can only
// happen if the VM was handed malformed bytecode, since well-formed
// TinyLang bytecode never executes an operator without its operands
// already pushed.
func (s *Stack) pop() (int32, error) {
	if s.isEmpty() {
		return 0, &errs.RuntimeError{Message: "pop from empty stack"}
	}
	index := len(*s) - 1
	value := (*s)[index]
	*s = (*s)[:index]
	return value, nil
}
