package ethereum

// contractABI is the PandoraBoxAuthenticator interface: registration and
// verification are state-changing, lookups are views, and the two events
// exist for observability only.
const contractABI = `[
  {
    "type": "function",
    "name": "registerProduct",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "name", "type": "string"},
      {"name": "id", "type": "bytes32"},
      {"name": "timestamp", "type": "uint256"}
    ],
    "outputs": []
  },
  {
    "type": "function",
    "name": "verifyProduct",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "id", "type": "bytes32"}
    ],
    "outputs": []
  },
  {
    "type": "function",
    "name": "getProduct",
    "stateMutability": "view",
    "inputs": [
      {"name": "id", "type": "bytes32"}
    ],
    "outputs": [
      {"name": "exists", "type": "bool"},
      {"name": "name", "type": "string"},
      {"name": "registeredBy", "type": "address"},
      {"name": "timestamp", "type": "uint256"},
      {"name": "blockNumber", "type": "uint256"}
    ]
  },
  {
    "type": "function",
    "name": "getVerifications",
    "stateMutability": "view",
    "inputs": [
      {"name": "id", "type": "bytes32"}
    ],
    "outputs": [
      {
        "name": "entries",
        "type": "tuple[]",
        "components": [
          {"name": "verifier", "type": "address"},
          {"name": "timestamp", "type": "uint256"}
        ]
      }
    ]
  },
  {
    "type": "event",
    "name": "ProductRegistered",
    "inputs": [
      {"name": "productId", "type": "bytes32", "indexed": true},
      {"name": "name", "type": "string", "indexed": false},
      {"name": "registeredBy", "type": "address", "indexed": true},
      {"name": "timestamp", "type": "uint256", "indexed": false},
      {"name": "blockNumber", "type": "uint256", "indexed": false}
    ],
    "anonymous": false
  },
  {
    "type": "event",
    "name": "ProductVerified",
    "inputs": [
      {"name": "productId", "type": "bytes32", "indexed": true},
      {"name": "verifier", "type": "address", "indexed": true},
      {"name": "timestamp", "type": "uint256", "indexed": false}
    ],
    "anonymous": false
  }
]`
