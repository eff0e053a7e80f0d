// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/utils"
)

var (
	ErrInputEmpty      = errors.New("input is empty")
	ErrInputTooLarge   = errors.New("input is too large")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrIndexOutOfRange = errors.New("index out-of-range")
)

func run(label string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	s, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func validateAddress(input string) error {
	_, err := codec.ParseAddress(strings.TrimSpace(input))
	return err
}

func validateLength(minLen, maxLen int) promptui.ValidateFunc {
	return func(input string) error {
		switch {
		case len(input) < minLen:
			return ErrInputEmpty
		case len(input) > maxLen:
			return ErrInputTooLarge
		default:
			return nil
		}
	}
}

func validateIndex(n int) promptui.ValidateFunc {
	return func(input string) error {
		if len(input) == 0 {
			return ErrInputEmpty
		}
		index, err := strconv.Atoi(input)
		if err != nil {
			return err
		}
		if index < 0 || index >= n {
			return ErrIndexOutOfRange
		}
		return nil
	}
}

func validateYesNo(input string) error {
	switch strings.ToLower(input) {
	case "":
		return ErrInputEmpty
	case "y", "n":
		return nil
	default:
		return ErrInvalidChoice
	}
}

// Address reads a base58 account address.
func Address(label string) (codec.Address, error) {
	s, err := run(label, validateAddress)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ParseAddress(s)
}

func String(label string, minLen int, maxLen int) (string, error) {
	return run(label, validateLength(minLen, maxLen))
}

// Choice reads an index in [0, n). A single option is selected without
// prompting.
func Choice(label string, n int) (int, error) {
	if n == 1 {
		utils.Outf("{{yellow}}%s:{{/}} 0 [auto-selected]\n", label)
		return 0, nil
	}
	s, err := run(label, validateIndex(n))
	if err != nil {
		return -1, err
	}
	return strconv.Atoi(s)
}

func Bool(label string) (bool, error) {
	s, err := run(label+" (y/n)", validateYesNo)
	if err != nil {
		return false, err
	}
	return strings.ToLower(s) == "y", nil
}
