/*
Package codec converts between wire bytes and the domain's message records.

The wire format is one UTF-8 JSON object per transport unit. Decoding goes through a
generic map first so that field types can be checked strictly (MoveTo must be an integer)
before being bound to domain.Inbound with mapstructure. Encoding is total for every
domain.Outbound value.
*/
package codec
