// Package contactio reads and writes contact sets as CSV or vCard.
//
// Both readers preserve field order as it appears in the input and keep
// fields that are present but empty, so a round trip through the dedupe
// engine only changes what matching changed. Writers take an explicit
// contact.FieldOrder for column and property order.
package contactio
