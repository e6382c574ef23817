package contracts

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PaymentEscrowABI is the ABI of the PaymentEscrow contract
const PaymentEscrowABI = `[
	{
		"inputs": [
			{
				"internalType": "bytes32",
				"name": "intentId",
				"type": "bytes32"
			},
			{
				"internalType": "address",
				"name": "token",
				"type": "address"
			},
			{
				"internalType": "uint256",
				"name": "amount",
				"type": "uint256"
			}
		],
		"name": "pay",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{
				"indexed": true,
				"internalType": "bytes32",
				"name": "intentId",
				"type": "bytes32"
			},
			{
				"indexed": true,
				"internalType": "address",
				"name": "token",
				"type": "address"
			},
			{
				"indexed": false,
				"internalType": "uint256",
				"name": "amount",
				"type": "uint256"
			},
			{
				"indexed": true,
				"internalType": "address",
				"name": "payer",
				"type": "address"
			}
		],
		"name": "PaymentReceived",
		"type": "event"
	}
]`

// PaymentEscrowParsedABI returns the parsed escrow ABI.
func PaymentEscrowParsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(PaymentEscrowABI))
}

// PaymentEscrow is an auto generated Go binding around an Ethereum contract.
type PaymentEscrow struct {
	PaymentEscrowCaller     // Read-only binding to the contract
	PaymentEscrowTransactor // Write-only binding to the contract
	PaymentEscrowFilterer   // Log filterer for contract events
}

// PaymentEscrowCaller is an auto generated read-only Go binding around an Ethereum contract.
type PaymentEscrowCaller struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// PaymentEscrowTransactor is an auto generated write-only Go binding around an Ethereum contract.
type PaymentEscrowTransactor struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// PaymentEscrowFilterer is an auto generated log filtering Go binding around an Ethereum contract events.
type PaymentEscrowFilterer struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// NewPaymentEscrow creates a new instance of PaymentEscrow, bound to a specific deployed contract.
func NewPaymentEscrow(address common.Address, backend bind.ContractBackend) (*PaymentEscrow, error) {
	contract, err := bindPaymentEscrow(address, backend, backend, backend)
	if err != nil {
		return nil, err
	}
	return &PaymentEscrow{
		PaymentEscrowCaller:     PaymentEscrowCaller{contract: contract},
		PaymentEscrowTransactor: PaymentEscrowTransactor{contract: contract},
		PaymentEscrowFilterer:   PaymentEscrowFilterer{contract: contract},
	}, nil
}

// NewPaymentEscrowFilterer creates a new log filterer instance of PaymentEscrow, bound to a specific deployed contract.
func NewPaymentEscrowFilterer(address common.Address, filterer bind.ContractFilterer) (*PaymentEscrowFilterer, error) {
	contract, err := bindPaymentEscrow(address, nil, nil, filterer)
	if err != nil {
		return nil, err
	}
	return &PaymentEscrowFilterer{contract: contract}, nil
}

// bindPaymentEscrow binds a generic wrapper to an already deployed contract.
func bindPaymentEscrow(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) (*bind.BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(PaymentEscrowABI))
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, parsed, caller, transactor, filterer), nil
}

// PaymentEscrowPaymentReceivedIterator is returned from FilterPaymentReceived and is used to iterate over the raw logs
// and unpacked data for PaymentReceived events raised by the PaymentEscrow contract.
type PaymentEscrowPaymentReceivedIterator struct {
	Event *PaymentEscrowPaymentReceived // Event containing the contract specifics and raw log

	contract *bind.BoundContract // Generic contract to use for unpacking event data
	event    string              // Event name to use for unpacking event data

	logs chan types.Log        // Log channel receiving the found contract events
	sub  ethereum.Subscription // Subscription for errors, completion and termination
	done bool                  // Whether the subscription completed delivering logs
	fail error                 // Occurred error to stop iteration
}

// Next advances the iterator to the subsequent event, returning whether there
// are any more events found.
func (it *PaymentEscrowPaymentReceivedIterator) Next() bool {
	if it.fail != nil {
		return false
	}
	if it.done {
		select {
		case log := <-it.logs:
			it.Event = new(PaymentEscrowPaymentReceived)
			if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
				it.fail = err
				return false
			}
			it.Event.Raw = log
			return true

		default:
			return false
		}
	}
	select {
	case log := <-it.logs:
		it.Event = new(PaymentEscrowPaymentReceived)
		if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
			it.fail = err
			return false
		}
		it.Event.Raw = log
		return true

	case err := <-it.sub.Err():
		it.done = true
		it.fail = err
		return it.Next()
	}
}

// Error returns any retrieval or parsing error occurred during filtering.
func (it *PaymentEscrowPaymentReceivedIterator) Error() error {
	return it.fail
}

// Close terminates the iteration process, releasing any pending underlying
// resources.
func (it *PaymentEscrowPaymentReceivedIterator) Close() error {
	it.sub.Unsubscribe()
	return nil
}

// PaymentEscrowPaymentReceived represents a PaymentReceived event raised by the PaymentEscrow contract.
type PaymentEscrowPaymentReceived struct {
	IntentId [32]byte
	Token    common.Address
	Amount   *big.Int
	Payer    common.Address
	Raw      types.Log // Blockchain specific contextual infos
}

// FilterPaymentReceived is a free log retrieval operation binding the contract event.
//
// Solidity: event PaymentReceived(bytes32 indexed intentId, address indexed token, uint256 amount, address indexed payer)
func (_PaymentEscrow *PaymentEscrowFilterer) FilterPaymentReceived(opts *bind.FilterOpts, intentId [][32]byte, token []common.Address, payer []common.Address) (*PaymentEscrowPaymentReceivedIterator, error) {
	var intentIdRule []interface{}
	for _, intentIdItem := range intentId {
		intentIdRule = append(intentIdRule, intentIdItem)
	}
	var tokenRule []interface{}
	for _, tokenItem := range token {
		tokenRule = append(tokenRule, tokenItem)
	}
	var payerRule []interface{}
	for _, payerItem := range payer {
		payerRule = append(payerRule, payerItem)
	}

	logs, sub, err := _PaymentEscrow.contract.FilterLogs(opts, "PaymentReceived", intentIdRule, tokenRule, payerRule)
	if err != nil {
		return nil, err
	}
	return &PaymentEscrowPaymentReceivedIterator{contract: _PaymentEscrow.contract, event: "PaymentReceived", logs: logs, sub: sub}, nil
}

// ParsePaymentReceived is a log parse operation binding the contract event.
//
// Solidity: event PaymentReceived(bytes32 indexed intentId, address indexed token, uint256 amount, address indexed payer)
func (_PaymentEscrow *PaymentEscrowFilterer) ParsePaymentReceived(log types.Log) (*PaymentEscrowPaymentReceived, error) {
	event := new(PaymentEscrowPaymentReceived)
	if err := _PaymentEscrow.contract.UnpackLog(event, "PaymentReceived", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}
