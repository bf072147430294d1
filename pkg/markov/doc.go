/*
Package markov builds word-level Markov chains from text and walks them to
generate new text.

A Chain maps every token to a Node that counts the tokens seen right after
it. A reserved barrier token marks sentence boundaries; it is where every
walk starts and where a walk returns after a sentence ends.

Generation takes one Constraint per output token. An unconstrained step
picks a successor at random, weighted by count. A length step or a finger
step picks the most frequent successor with that shape, falling back to the
nearest lengths when nothing matches exactly. Finger classes come from
package keyboard. A step that cannot be satisfied emits a terminator and
restarts the walk at the barrier instead of failing.

	c := markov.NewChain()
	_ = c.Train(strings.NewReader("poke anna and then poke jared."))
	out, _ := c.Generate([]markov.Constraint{markov.Free(), markov.Length(4)})
	fmt.Println(c.Join(out))
*/
package markov
