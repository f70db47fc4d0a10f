package xdr

// EncodeList writes items using the NFSv4 "list" convention: each element is
// prefixed with an Optional flag of 1, the whole sequence terminated by a
// flag of 0. This differs from a length-prefixed Sequence and is used for
// wire shapes such as the directory-entry chain in a READDIR reply.
func EncodeList[T any](e *Encoder, items []T, encode func(*Encoder, T) error) error {
	for _, item := range items {
		if err := e.Bool(true); err != nil {
			return err
		}

		if err := encode(e, item); err != nil {
			return err
		}
	}

	return e.Bool(false)
}

// DecodeList reads a "list" encoded sequence written by EncodeList.
func DecodeList[T any](d *Decoder, decode func(*Decoder) (T, error)) ([]T, error) {
	var items []T

	for {
		hasNext, err := d.Bool()
		if err != nil {
			return nil, err
		}

		if !hasNext {
			return items, nil
		}

		item, err := decode(d)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}
}
