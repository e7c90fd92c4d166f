package packet

import (
	"fmt"
	"strings"
)

// Dump renders the tree rooted at p, one packet per line, children
// indented under their operator.
func Dump(p *Packet) string {
	var b strings.Builder
	dump(&b, p, 0)
	return b.String()
}

func dump(b *strings.Builder, p *Packet, level int) {
	if p == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", level))
	if p.IsLiteral() {
		fmt.Fprintf(b, "v%d literal %d [bit %d, %d bits]\n", p.Version, p.Value, p.Offset, p.Size)
		return
	}
	fmt.Fprintf(b, "v%d %s %s=%d [bit %d, %d bits]\n",
		p.Version, p.Opcode, p.Framing.Type, p.Framing.Length, p.Offset, p.Size)
	for _, c := range p.Children {
		dump(b, c, level+1)
	}
}
