package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/imcodec/imcodec"
	"github.com/imcodec/imcodec/im"
	"github.com/imcodec/imcodec/wire"
)

func main() {
	codec := imcodec.New()
	if err := codec.LoadRepo(im.Repo()); err != nil {
		log.Fatalf("Failed to load im schema: %v", err)
	}

	fmt.Println("imcodec sample app")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Loaded messages: %v\n", codec.ListMessages())

	demonstrateRoundTrip(codec)

	fmt.Println("\n" + strings.Repeat("=", 60))
	demonstrateVersionSkew(codec)

	fmt.Println("\n" + strings.Repeat("=", 60))
	demonstrateUnmarshal(codec)
}

// demonstrateRoundTrip encodes a full InstantMessage and decodes it back.
func demonstrateRoundTrip(codec *imcodec.Codec) {
	fmt.Println("\nRound trip: InstantMessage")

	sender := wire.NewRecord()
	sender.Set(1, uint64(1001))
	sender.Set(2, "smiley1983")

	recipient := wire.NewRecord()
	recipient.Set(1, uint64(2002))
	recipient.Set(2, "coolguy2000")

	metadata := wire.NewRecord()
	metadata.Set(1, int32(1)) // EN_ONE
	metadata.Set(2, float32(12.5))

	msg := wire.NewRecord()
	msg.Set(1, uint64(1609459200))
	msg.Set(2, int32(2)) // EN_TWO
	msg.Set(3, uint32(0x7F000001))
	msg.Set(4, sender)
	msg.Set(5, recipient)
	msg.Set(6, "hey, long time no see!")
	msg.Append(7, []byte{0xFF, 0xD8, 0xFF}) // JPEG magic
	msg.Append(7, []byte{0x89, 0x50, 0x4E, 0x47})
	msg.Set(8, metadata)

	data, err := codec.Encode(msg, im.TypeInstantMessage)
	if err != nil {
		log.Fatalf("Failed to encode: %v", err)
	}
	fmt.Printf("Encoded %d bytes: %s\n", len(data), hex.EncodeToString(data))

	decoded, err := codec.Decode(data, im.TypeInstantMessage)
	if err != nil {
		log.Fatalf("Failed to decode: %v", err)
	}

	text, _ := decoded.Get(6)
	from, _ := decoded.Get(4)
	screenName, _ := from.(*wire.Record).Get(2)
	fmt.Printf("Decoded: %s says %q\n", screenName, text)
}

// demonstrateVersionSkew relays a payload carrying fields this schema does
// not declare. The unknown fields survive decode and re-encode byte for
// byte.
func demonstrateVersionSkew(codec *imcodec.Codec) {
	fmt.Println("\nVersion skew: relaying unknown fields")

	e := wire.NewEncoder()
	e.EncodeVarint(uint64(wire.MakeTag(1, wire.WireVarint)))
	e.EncodeVarint(1001)
	e.EncodeVarint(uint64(wire.MakeTag(50, wire.WireBytes)))
	e.EncodeString("https://example.com/avatar.png")
	newerPayload := e.Bytes()

	decoded, err := codec.Decode(newerPayload, im.TypeUser)
	if err != nil {
		log.Fatalf("Failed to decode newer payload: %v", err)
	}
	fmt.Printf("Known fields: %d, preserved unknown fields: %d\n", decoded.Len(), len(decoded.Unknown))

	relayed, err := codec.Encode(decoded, im.TypeUser)
	if err != nil {
		log.Fatalf("Failed to re-encode: %v", err)
	}
	fmt.Printf("Original: %s\n", hex.EncodeToString(newerPayload))
	fmt.Printf("Relayed:  %s\n", hex.EncodeToString(relayed))
}

// demonstrateUnmarshal decodes wire bytes straight into a Go struct.
func demonstrateUnmarshal(codec *imcodec.Codec) {
	fmt.Println("\nUnmarshal: wire bytes into a struct")

	rec := wire.NewRecord()
	rec.Set(1, uint64(1001))
	rec.Set(2, "smiley1983")

	data, err := codec.Encode(rec, im.TypeUser)
	if err != nil {
		log.Fatalf("Failed to encode: %v", err)
	}

	type User struct {
		Id         uint64
		ScreenName string
	}

	var user User
	if err := codec.Unmarshal(data, &user); err != nil {
		log.Fatalf("Failed to unmarshal: %v", err)
	}
	fmt.Printf("User{Id: %d, ScreenName: %q}\n", user.Id, user.ScreenName)
}
