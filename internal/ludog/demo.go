package ludog

// Demo registers the program
//
//	{
//	    let x = 1 + 2;
//	    add(x, true);
//	}
//
// in s and returns its block. Lists are built tail first so that each
// record can point at its successor.
func Demo(s *Store) *Block {
	block := NewBlock(s)
	NewExpressionBlock(block, s)

	one := NewExpressionIntegerLiteral(NewIntegerLiteral(1, s), s)
	two := NewExpressionIntegerLiteral(NewIntegerLiteral(2, s), s)
	sum := NewExpressionOperator(NewOperatorBinary(one, two, NewBinary(Addition, s), s), s)
	x := NewLocalVariable("x", s)
	let := NewLetStatement(sum, x, s)

	callee := NewExpressionVariableExpression(NewVariableExpression("add", s), s)
	call := NewCall(true, callee, s)
	NewExpressionCall(call, s)
	second := NewArgument(1, call, NewExpressionBooleanLiteral(NewBooleanLiteral(true, s), s), nil, s)
	NewArgument(0, call, NewExpressionVariableExpression(NewVariableExpression("x", s), s), second, s)
	stmt := NewExpressionStatement(call.R15Expression(s), s)

	last := NewStatementExpressionStatement(1, block, nil, stmt, s)
	NewStatementLetStatement(0, block, last, let, s)
	return block
}
