// Package ethrpc reads and writes the Basenames contracts on Base over
// JSON-RPC using go-ethereum contract bindings.
package ethrpc

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const registrarControllerABI = `[
  {"type":"function","name":"available","stateMutability":"view",
   "inputs":[{"name":"name","type":"string"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"rentPrice","stateMutability":"view",
   "inputs":[{"name":"name","type":"string"},{"name":"duration","type":"uint256"}],
   "outputs":[{"name":"price","type":"tuple","components":[
     {"name":"base","type":"uint256"},{"name":"premium","type":"uint256"}]}]},
  {"type":"function","name":"register","stateMutability":"payable",
   "inputs":[
     {"name":"name","type":"string"},
     {"name":"owner","type":"address"},
     {"name":"duration","type":"uint256"},
     {"name":"resolver","type":"address"},
     {"name":"data","type":"bytes[]"},
     {"name":"reverseRecord","type":"bool"},
     {"name":"ownerControlledFuses","type":"uint32"}],
   "outputs":[]}
]`

const registryABI = `[
  {"type":"function","name":"owner","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],
   "outputs":[{"name":"","type":"address"}]}
]`

// Parsed ABIs. Both are compile-time constants, so a parse failure is a
// programming error.
var (
	RegistrarControllerABI = mustParse(registrarControllerABI)
	RegistryABI            = mustParse(registryABI)
)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("ethrpc: parse abi: " + err.Error())
	}
	return parsed
}
