package kernel

// MessageBytes is the size of a message body: opaque payload bytes copied
// by value between processes. Kept to one cache line including the header.
const MessageBytes = 24

// Message is the fixed-size value carried by Send, Receive and SendRec.
// Sender and Type are stamped by the kernel on delivery; Body is opaque
// to the kernel and copied byte-for-byte.
type Message struct {
	Sender ProcID
	Type   int
	Body   [MessageBytes]byte
}

// Reserved sender id for kernel-synthesised interrupt messages. Never a
// real process id.
const HARDWARE ProcID = 0xFFFF

// Reserved message types.
const (
	// ANY matches any message type in a Receive filter.
	ANY = -1
	// INTERRUPT tags a kernel-synthesised interrupt notification.
	INTERRUPT = -2
	// REPLY is the conventional type used for the second half of SendRec.
	REPLY = -3
)

func deliver(buf *Message, sender ProcID, typ int, src *Message) {
	if buf == nil {
		return
	}
	if src != nil {
		*buf = *src
	}
	buf.Sender = sender
	buf.Type = typ
}
