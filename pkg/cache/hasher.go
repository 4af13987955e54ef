package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"distflow/pkg/domain"
)

// NetworkHash вычисляет хеш сети для использования как ключ кэша.
// Порядок вставки узлов и рёбер входит в хеш: от него зависит
// распределение потока по рёбрам, хотя максимальный поток тот же.
func NetworkHash(n *domain.Network) string {
	if n == nil {
		return ""
	}

	hash := sha256.Sum256([]byte(canonical(n)))
	return hex.EncodeToString(hash[:16])
}

// canonical строит детерминированное представление сети
func canonical(n *domain.Network) string {
	var b strings.Builder

	for _, node := range n.Nodes() {
		b.WriteString("n:")
		b.WriteString(strconv.Quote(node.ID))
		b.WriteByte(':')
		b.WriteString(node.Role.String())
		b.WriteByte(';')
	}

	for _, e := range n.Edges() {
		b.WriteString("e:")
		b.WriteString(strconv.Quote(e.From))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(e.To))
		b.WriteByte(':')
		if e.Unbounded {
			b.WriteString("inf")
		} else {
			b.WriteString(strconv.FormatFloat(e.Capacity, 'g', -1, 64))
		}
		b.WriteByte(';')
	}

	return b.String()
}

// BuildSolutionKey строит ключ кэша для решения
func BuildSolutionKey(networkHash, source, sink string) string {
	return "solution:" + networkHash + ":" + ShortHash([]byte(source+"\x00"+sink))
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
